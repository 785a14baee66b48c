package forum

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Topic is a forum discussion thread.
type Topic struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`             // Topic title
	Content    string             `bson:"content" json:"content"`         // Opening post body
	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`     // Author user
	AuthorName string             `bson:"author_name" json:"author_name"` // Author display name
	AuthorRole string             `bson:"author_role" json:"author_role"` // Author role
	Category   string             `bson:"category" json:"category"`       // Free-form discussion category
	Views      int64              `bson:"views" json:"views"`             // Incremented atomically on every fetch
	ReplyCount int64              `bson:"reply_count" json:"reply_count"` // Bumped on every reply
	IsActive   bool               `bson:"is_active" json:"is_active"`     // Soft-delete flag
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// Reply is a single response in a topic.
type Reply struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TopicID    primitive.ObjectID `bson:"topic_id" json:"topic_id"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	AuthorRole string             `bson:"author_role" json:"author_role"`
	Content    string             `bson:"content" json:"content"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
