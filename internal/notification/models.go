package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipient is one user's read-state entry in a notification's ledger.
// One entry per (user_id, user_role) pair; dedupe happens at fan-out time.
type Recipient struct {
	UserID   primitive.ObjectID `bson:"user_id"`           // Recipient user
	UserRole string             `bson:"user_role"`         // Role the user was targeted as
	IsRead   bool               `bson:"is_read"`           // Whether this recipient has read the notification
	ReadAt   *time.Time         `bson:"read_at,omitempty"` // Set exactly when is_read flips to true, nil otherwise
}

// TargetAudience is the targeting rule resolved into concrete recipients
// once, at creation time.
type TargetAudience struct {
	Scope string `bson:"scope"`           // all, students, teachers, parents, grade, class
	Grade string `bson:"grade,omitempty"` // Grade reference for scope "grade"
	Class string `bson:"class,omitempty"` // Class reference for scope "class"
}

// Creator records who authored the notification.
type Creator struct {
	Email string `bson:"email" json:"email"` // Author identity (primary identifier)
	Role  string `bson:"role" json:"role"`   // Author role (teacher or admin)
	Name  string `bson:"name" json:"name"`   // Author display name
}

// Notification represents a broadcast with a per-recipient read ledger.
type Notification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`          // Unique identifier for the notification
	Title          string             `bson:"title"`                  // Short headline
	Message        string             `bson:"message"`                // Notification body
	Type           string             `bson:"type"`                   // announcement, assignment, exam, attendance, fee, general, urgent
	Priority       string             `bson:"priority"`               // low, medium, high, urgent
	TargetAudience TargetAudience     `bson:"target_audience"`        // Targeting rule used at creation
	Recipients     []Recipient        `bson:"recipients"`             // Materialized read-state ledger, fixed after creation
	ActionLink     string             `bson:"action_link,omitempty"`  // Optional link for the client to follow
	ActionLabel    string             `bson:"action_label,omitempty"` // Label for the action link
	ExpiresAt      *time.Time         `bson:"expires_at,omitempty"`   // Listing filters on this; nothing deletes expired notifications
	IsActive       bool               `bson:"is_active"`              // Soft-delete flag, never hard-deleted
	EmailStatus    string             `bson:"email_status,omitempty"` // pending or sent, for urgent-priority email delivery
	EmailedTo      []string           `bson:"emailed_to,omitempty"`   // Emails the urgent dispatch went to (for audit)
	CreatedBy      Creator            `bson:"created_by"`             // Authoring actor
	CreatedAt      time.Time          `bson:"created_at"`             // When the notification was created
	UpdatedAt      time.Time          `bson:"updated_at"`             // When the notification was last updated
}

// NotificationView is a notification projected for one recipient: the ledger
// is collapsed into that caller's own read flag.
type NotificationView struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Message     string             `json:"message"`
	Type        string             `json:"type"`
	Priority    string             `json:"priority"`
	ActionLink  string             `json:"action_link,omitempty"`
	ActionLabel string             `json:"action_label,omitempty"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	IsRead      bool               `json:"is_read"`
	ReadAt      *time.Time         `json:"read_at,omitempty"`
	CreatedBy   Creator            `json:"created_by"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ViewFor collapses the ledger to the given recipient's entry. A notification
// listed for a user always contains that user, so a missing entry just reads
// as unread.
func (n *Notification) ViewFor(userID primitive.ObjectID, userRole string) *NotificationView {
	view := &NotificationView{
		ID:          n.ID,
		Title:       n.Title,
		Message:     n.Message,
		Type:        n.Type,
		Priority:    n.Priority,
		ActionLink:  n.ActionLink,
		ActionLabel: n.ActionLabel,
		ExpiresAt:   n.ExpiresAt,
		CreatedBy:   n.CreatedBy,
		CreatedAt:   n.CreatedAt,
	}
	for _, rec := range n.Recipients {
		if rec.UserID == userID && rec.UserRole == userRole {
			view.IsRead = rec.IsRead
			view.ReadAt = rec.ReadAt
			break
		}
	}
	return view
}

// Why: This model keeps the whole read-state ledger inside the notification
// document so a single atomic array update can flip one recipient's entry.
