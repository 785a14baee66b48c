package messaging

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participant is one party in a conversation.
type Participant struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`     // Participant user
	Role     string             `bson:"role" json:"role"`           // parent, teacher, admin
	Name     string             `bson:"name" json:"name"`           // Display name
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"` // When the participant joined the thread
}

// LastMessage is the denormalized projection of the newest message, kept on
// the conversation for list views. It is a cache, not the source of truth,
// and is overwritten whole on every append.
type LastMessage struct {
	Content    string             `bson:"content" json:"content"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	SenderName string             `bson:"sender_name" json:"sender_name"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Conversation groups ordered messages between parties.
type Conversation struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`                    // Unique identifier for the conversation
	Participants []Participant       `bson:"participants" json:"participants"`           // Parties in the thread
	Subject      string              `bson:"subject" json:"subject"`                     // Subject line
	Category     string              `bson:"category" json:"category"`                   // general, academic, discipline, attendance, fees, health, transport, other
	StudentID    *primitive.ObjectID `bson:"student_id,omitempty" json:"student_id,omitempty"` // Related student, if the thread concerns one
	LastMessage  *LastMessage        `bson:"last_message,omitempty" json:"last_message,omitempty"` // Projection of the newest message
	IsActive     bool                `bson:"is_active" json:"is_active"`                 // Lifecycle flag
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`               // When the conversation started
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`               // Bumped on every append
}

// Attachment is file metadata carried on a message.
type Attachment struct {
	FileName string `bson:"file_name" json:"file_name"`
	FileURL  string `bson:"file_url" json:"file_url"`
	FileType string `bson:"file_type" json:"file_type"`
	FileSize int64  `bson:"file_size" json:"file_size"`
}

// Message is a single immutable message in a conversation; only its
// read-state ever changes, exactly once, by the receiving party.
type Message struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID  `bson:"conversation_id" json:"conversation_id"`
	SenderID       primitive.ObjectID  `bson:"sender_id" json:"sender_id"`
	SenderRole     string              `bson:"sender_role" json:"sender_role"`
	SenderName     string              `bson:"sender_name" json:"sender_name"`
	ReceiverID     primitive.ObjectID  `bson:"receiver_id" json:"receiver_id"`
	ReceiverRole   string              `bson:"receiver_role" json:"receiver_role"`
	Subject        string              `bson:"subject,omitempty" json:"subject,omitempty"`
	Content        string              `bson:"content" json:"content"`
	Attachments    []Attachment        `bson:"attachments,omitempty" json:"attachments,omitempty"`
	IsRead         bool                `bson:"is_read" json:"is_read"`
	ReadAt         *time.Time          `bson:"read_at,omitempty" json:"read_at,omitempty"`
	Priority       string              `bson:"priority" json:"priority"`
	Category       string              `bson:"category" json:"category"`
	StudentID      *primitive.ObjectID `bson:"student_id,omitempty" json:"student_id,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
}

// ValidCategory reports whether c is a known conversation category.
func ValidCategory(c string) bool {
	switch c {
	case "general", "academic", "discipline", "attendance", "fees", "health", "transport", "other":
		return true
	}
	return false
}

// ProjectLastMessage builds the conversation's cache entry from a message.
// Recomputed whole on every append, never merged.
func ProjectLastMessage(m *Message) *LastMessage {
	return &LastMessage{
		Content:    m.Content,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		CreatedAt:  m.CreatedAt,
	}
}
