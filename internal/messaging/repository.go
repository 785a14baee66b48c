package messaging

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)

// MessagingRepository handles DB operations for conversations and messages.
type MessagingRepository struct {
	conversationsCollection *mongo.Collection
	messagesCollection      *mongo.Collection
}

// NewMessagingRepository creates a new repository for messaging operations.
func NewMessagingRepository(db *mongo.Database) *MessagingRepository {
	return &MessagingRepository{
		conversationsCollection: db.Collection("conversations"),
		messagesCollection:      db.Collection("messages"),
	}
}

// lastMessageUpdate overwrites the conversation's projection and bumps
// updated_at. Last writer wins; there is no version check.
func lastMessageUpdate(m *Message) bson.M {
	return bson.M{"$set": bson.M{
		"last_message": ProjectLastMessage(m),
		"updated_at":   m.CreatedAt,
	}}
}

// markMessageReadFilter matches the message only while it is still unread by
// its receiver, so the flip happens at most once.
func markMessageReadFilter(id, readerID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":         id,
		"receiver_id": readerID,
		"is_read":     false,
	}
}

func markMessageReadUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"is_read": true,
		"read_at": now,
	}}
}

// CreateConversation inserts a new conversation.
func (r *MessagingRepository) CreateConversation(ctx context.Context, conv *Conversation) error {
	_, err := r.conversationsCollection.InsertOne(ctx, conv)
	return err
}

// FindConversationByID fetches a conversation, nil when absent.
func (r *MessagingRepository) FindConversationByID(ctx context.Context, id primitive.ObjectID) (*Conversation, error) {
	var conv Conversation
	err := r.conversationsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// FindConversationsForUser lists active conversations containing the user,
// newest activity first. List views read only the last_message projection.
func (r *MessagingRepository) FindConversationsForUser(ctx context.Context, userID primitive.ObjectID) ([]*Conversation, error) {
	filter := bson.M{
		"is_active":            true,
		"participants.user_id": userID,
	}
	opts := options.Find().SetSort(bson.M{"updated_at": -1})
	cursor, err := r.conversationsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var conversations []*Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// AppendMessage persists the message, then overwrites the parent
// conversation's last_message projection and bumps updated_at.
func (r *MessagingRepository) AppendMessage(ctx context.Context, m *Message) error {
	_, err := r.messagesCollection.InsertOne(ctx, m)
	if err != nil {
		return err
	}

	res, err := r.conversationsCollection.UpdateOne(ctx, bson.M{"_id": m.ConversationID}, lastMessageUpdate(m))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// FindMessages returns a conversation's messages in creation order.
func (r *MessagingRepository) FindMessages(ctx context.Context, conversationID primitive.ObjectID) ([]*Message, error) {
	filter := bson.M{"conversation_id": conversationID}
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := r.messagesCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessageRead flips a message to read for its receiver. A repeat call is
// a no-op that still reports true; read_at is set once and preserved. The
// conversation's last_message cache is never marked read.
func (r *MessagingRepository) MarkMessageRead(ctx context.Context, id, readerID primitive.ObjectID) (bool, error) {
	res, err := r.messagesCollection.UpdateOne(ctx, markMessageReadFilter(id, readerID), markMessageReadUpdate(time.Now()))
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	count, err := r.messagesCollection.CountDocuments(ctx, bson.M{"_id": id, "receiver_id": readerID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Why: Message content is immutable after insert; the only mutations are the
// single read-state flip on the message and the last-writer-wins projection
// overwrite on the conversation.
