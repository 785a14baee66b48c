package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
)

// maxRecipientsPerSend caps the To list of a single Resend call; broadcasts
// larger than this are split into batches.
const maxRecipientsPerSend = 50

type ResendConfig struct {
	APIKey string
	APIURL string
	From   string
}

func NewResendConfig() *ResendConfig {
	apiKey := os.Getenv("RESEND_API_KEY")
	apiURL := os.Getenv("RESEND_API_URL")
	fromEmail := os.Getenv("FROM_EMAIL")
	if apiKey == "" || apiURL == "" || fromEmail == "" {
		log.Fatal("RESEND_API_KEY, RESEND_API_URL and FROM_EMAIL must be set")
	}
	return &ResendConfig{
		APIKey: apiKey,
		APIURL: apiURL,
		From:   fromEmail}
}

type EmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html"`
}

type EmailService struct {
	Config *ResendConfig
}

func NewEmailService(lc fx.Lifecycle, config *ResendConfig) *EmailService {
	service := &EmailService{Config: config}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Println("Email service initialized")
			return nil
		},
	})
	return service
}

// SendEmail delivers a single message to one address.
func (e *EmailService) SendEmail(to, subject, body string) error {
	return e.send([]string{to}, subject, body)
}

// SendBulkEmail fans a message out to every address, batching the To list.
// A failed batch is logged and skipped so one rejection does not abort the
// broadcast. It returns the addresses that were actually delivered.
func (e *EmailService) SendBulkEmail(to []string, subject, body string) []string {
	delivered := make([]string, 0, len(to))
	for start := 0; start < len(to); start += maxRecipientsPerSend {
		end := start + maxRecipientsPerSend
		if end > len(to) {
			end = len(to)
		}
		batch := to[start:end]
		if err := e.send(batch, subject, body); err != nil {
			log.Println("Failed to send email batch:", err)
			continue
		}
		delivered = append(delivered, batch...)
	}
	return delivered
}

func (e *EmailService) send(to []string, subject, body string) error {
	payload := EmailRequest{
		From:    e.Config.From,
		To:      to,
		Subject: subject,
		Html:    htmlBody(subject, body),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequest("POST", e.Config.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+e.Config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorResponse map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorResponse)
		return fmt.Errorf("email rejected with status %d: %v", resp.StatusCode, errorResponse)
	}

	log.Printf("Email sent to %d recipient(s)", len(to))
	return nil
}

// htmlBody wraps plain-text subject and body into the HTML template Resend
// expects, escaping user-supplied text.
func htmlBody(subject, body string) string {
	return fmt.Sprintf("<div><h2>%s</h2><p>%s</p><p>&mdash; SchoolHub</p></div>",
		html.EscapeString(subject), html.EscapeString(body))
}
