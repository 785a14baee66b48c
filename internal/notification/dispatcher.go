package notification

import (
	"context"
	"log"
	"time"

	"go.uber.org/fx"
)

// EmailDispatcher periodically emails urgent notifications that have not been
// dispatched yet. It only writes the delivery audit fields; read-state and
// expiry belong to the request path.
type EmailDispatcher struct {
	service *NotificationService
}

// NewEmailDispatcher creates a new dispatcher.
func NewEmailDispatcher(service *NotificationService) *EmailDispatcher {
	return &EmailDispatcher{service: service}
}

// Start registers the background goroutine with the fx lifecycle.
func (d *EmailDispatcher) Start(lc fx.Lifecycle) {
	interval := 1 // minute
	ticker := time.NewTicker(time.Duration(interval) * time.Minute)
	done := make(chan bool)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Printf("Starting urgent email dispatcher (checking every %d minute(s))...", interval)
			go func() {
				dispatcherCtx := context.Background()
				for {
					select {
					case <-ticker.C:
						d.service.SendPendingEmails(dispatcherCtx)
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping urgent email dispatcher...")
			ticker.Stop()
			done <- true
			return nil
		},
	})
}

// Why: Urgent broadcasts should reach people who are not logged in; email
// delivery is retried on the next tick if a batch fails.
