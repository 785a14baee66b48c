package notification

import (
	"SchoolHub/internal/auth"
	"SchoolHub/internal/config"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// invalidInputError marks request-validation failures so the handler can map
// them to 400; anything else that goes wrong in a service is a storage fault
// and surfaces as a logged 500 with a generic body.
type invalidInputError struct{ msg string }

func (e invalidInputError) Error() string { return e.msg }

func invalidInput(msg string) error { return invalidInputError{msg: msg} }

// IsInvalidInput reports whether err is a request-validation failure.
func IsInvalidInput(err error) bool {
	var e invalidInputError
	return errors.As(err, &e)
}

// NotificationService coordinates audience fan-out, read-state updates and
// urgent email delivery.
type NotificationService struct {
	repo         *NotificationRepository
	userRepo     *auth.UserRepository
	emailService *config.EmailService
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo *NotificationRepository, userRepo *auth.UserRepository, emailService *config.EmailService) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, emailService: emailService}
}

// CreateNotification resolves the target audience into a concrete recipient
// ledger and inserts the notification once. Later audience or directory
// changes never alter the ledger; no recipient is added or removed after
// creation.
func (s *NotificationService) CreateNotification(ctx context.Context, n *Notification) error {
	if !ValidType(n.Type) {
		return invalidInput("invalid notification type")
	}
	if !ValidPriority(n.Priority) {
		return invalidInput("invalid notification priority")
	}
	if !ValidAudience(n.TargetAudience) {
		return invalidInput("invalid target audience")
	}

	users, err := s.userRepo.FindByAudience(ctx, n.TargetAudience.Scope, n.TargetAudience.Grade, n.TargetAudience.Class)
	if err != nil {
		return err
	}

	n.ID = primitive.NewObjectID()
	n.Recipients = BuildRecipients(users)
	n.IsActive = true
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	if n.Priority == "urgent" {
		n.EmailStatus = "pending"
	}
	return s.repo.CreateNotification(ctx, n)
}

// MarkRead flips the caller's own ledger entry. matched=false means the
// notification has no entry for the caller (or does not exist) and maps to a
// 404 at the handler; it is not an internal error.
func (s *NotificationService) MarkRead(ctx context.Context, id primitive.ObjectID, userEmail, userRole string) (bool, error) {
	user, err := s.userRepo.FindByEmail(ctx, userEmail)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return s.repo.MarkRead(ctx, id, user.ID, userRole)
}

// MarkAllRead flips every unread entry belonging to the caller and returns
// how many notifications changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userEmail, userRole string) (int64, error) {
	user, err := s.userRepo.FindByEmail(ctx, userEmail)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, nil
	}
	return s.repo.MarkAllRead(ctx, user.ID, userRole)
}

// ListForUser returns the caller's active, unexpired notifications projected
// down to their own read flag.
func (s *NotificationService) ListForUser(ctx context.Context, userEmail, userRole string) ([]*NotificationView, error) {
	user, err := s.userRepo.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []*NotificationView{}, nil
	}
	notifications, err := s.repo.FindForRecipient(ctx, user.ID, userRole, time.Now())
	if err != nil {
		return nil, err
	}
	views := make([]*NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, n.ViewFor(user.ID, userRole))
	}
	return views, nil
}

// DeactivateNotification soft-deletes a notification by id.
func (s *NotificationService) DeactivateNotification(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Deactivate(ctx, id)
}

// SendPendingEmails emails every urgent notification that has not been
// dispatched yet. Read-state and expiry are never touched here.
func (s *NotificationService) SendPendingEmails(ctx context.Context) {
	notifications, err := s.repo.FindPendingEmail(ctx)
	if err != nil {
		log.Println("Failed to fetch pending urgent notifications:", err)
		return
	}
	for _, n := range notifications {
		sentTo, err := s.emailNotification(ctx, n)
		if err != nil {
			log.Printf("Failed to email notification %v: %v", n.ID.Hex(), err)
			continue
		}
		if err := s.repo.UpdateEmailStatus(ctx, n.ID, "sent", sentTo); err != nil {
			log.Printf("Failed to update email status for %v: %v", n.ID.Hex(), err)
		}
	}
}

// emailNotification sends the notification body to every ledger recipient's
// email address.
func (s *NotificationService) emailNotification(ctx context.Context, n *Notification) ([]string, error) {
	ids := make([]primitive.ObjectID, 0, len(n.Recipients))
	for _, rec := range n.Recipients {
		ids = append(ids, rec.UserID)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(users))
	for _, user := range users {
		emails = append(emails, user.Email)
	}
	return s.emailService.SendBulkEmail(emails, n.Title, n.Message), nil
}

// Why: This service keeps fan-out at creation time and delegates every
// read-state change to the repository's atomic updates, so there is no
// read-modify-write anywhere in the path.
