package messaging

import (
	"SchoolHub/internal/auth"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotParticipant is returned when the caller is not a party to the
// conversation; it maps to 403 at the handler.
var ErrNotParticipant = errors.New("not a participant in this conversation")

// invalidInputError marks request-validation failures so the handler can map
// them to 400; unexpected storage faults surface as a logged 500 instead.
type invalidInputError struct{ msg string }

func (e invalidInputError) Error() string { return e.msg }

func invalidInput(msg string) error { return invalidInputError{msg: msg} }

// IsInvalidInput reports whether err is a request-validation failure.
func IsInvalidInput(err error) bool {
	var e invalidInputError
	return errors.As(err, &e)
}

// MessagingService coordinates conversations and their messages.
type MessagingService struct {
	repo     *MessagingRepository
	userRepo *auth.UserRepository
}

// NewMessagingService creates a new MessagingService.
func NewMessagingService(repo *MessagingRepository, userRepo *auth.UserRepository) *MessagingService {
	return &MessagingService{repo: repo, userRepo: userRepo}
}

func (s *MessagingService) userByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

// StartConversation creates a conversation between the sender and receiver
// and appends its first message, so the last_message projection is populated
// from the start.
func (s *MessagingService) StartConversation(ctx context.Context, senderEmail string, receiverID primitive.ObjectID, subject, category, content string, studentID *primitive.ObjectID) (*Conversation, error) {
	if !ValidCategory(category) {
		return nil, invalidInput("invalid conversation category")
	}

	sender, err := s.userByEmail(ctx, senderEmail)
	if err != nil {
		return nil, err
	}
	receiver, err := s.userRepo.FindByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, invalidInput("receiver not found")
	}

	now := time.Now()
	conv := &Conversation{
		ID: primitive.NewObjectID(),
		Participants: []Participant{
			{UserID: sender.ID, Role: sender.Role, Name: sender.Name, JoinedAt: now},
			{UserID: receiver.ID, Role: receiver.Role, Name: receiver.Name, JoinedAt: now},
		},
		Subject:   subject,
		Category:  category,
		StudentID: studentID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}

	return s.SendMessage(ctx, conv.ID, senderEmail, content, nil)
}

// SendMessage appends a message to an existing conversation. The receiver is
// the other participant; the conversation's projection is overwritten with
// this message once the append succeeds.
func (s *MessagingService) SendMessage(ctx context.Context, conversationID primitive.ObjectID, senderEmail, content string, attachments []Attachment) (*Conversation, error) {
	if content == "" {
		return nil, invalidInput("message content is required")
	}

	sender, err := s.userByEmail(ctx, senderEmail)
	if err != nil {
		return nil, err
	}
	conv, err := s.repo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil || !conv.IsActive {
		return nil, ErrConversationNotFound
	}

	var receiver *Participant
	isParticipant := false
	for i := range conv.Participants {
		if conv.Participants[i].UserID == sender.ID {
			isParticipant = true
		} else if receiver == nil {
			receiver = &conv.Participants[i]
		}
	}
	if !isParticipant {
		return nil, ErrNotParticipant
	}
	if receiver == nil {
		return nil, errors.New("conversation has no other participant")
	}

	m := &Message{
		ID:             primitive.NewObjectID(),
		ConversationID: conv.ID,
		SenderID:       sender.ID,
		SenderRole:     sender.Role,
		SenderName:     sender.Name,
		ReceiverID:     receiver.UserID,
		ReceiverRole:   receiver.Role,
		Subject:        conv.Subject,
		Content:        content,
		Attachments:    attachments,
		IsRead:         false,
		Priority:       "medium",
		Category:       conv.Category,
		StudentID:      conv.StudentID,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.AppendMessage(ctx, m); err != nil {
		return nil, err
	}

	return s.repo.FindConversationByID(ctx, conv.ID)
}

// ListConversations returns the caller's active conversations, newest
// activity first.
func (s *MessagingService) ListConversations(ctx context.Context, userEmail string) ([]*Conversation, error) {
	user, err := s.userByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	return s.repo.FindConversationsForUser(ctx, user.ID)
}

// Messages returns a conversation's messages in creation order; the caller
// must be a participant.
func (s *MessagingService) Messages(ctx context.Context, conversationID primitive.ObjectID, userEmail string) ([]*Message, error) {
	user, err := s.userByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	conv, err := s.repo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	isParticipant := false
	for _, p := range conv.Participants {
		if p.UserID == user.ID {
			isParticipant = true
			break
		}
	}
	if !isParticipant {
		return nil, ErrNotParticipant
	}
	return s.repo.FindMessages(ctx, conversationID)
}

// MarkMessageRead flips one message's read state for the caller.
func (s *MessagingService) MarkMessageRead(ctx context.Context, messageID primitive.ObjectID, readerEmail string) (bool, error) {
	reader, err := s.userRepo.FindByEmail(ctx, readerEmail)
	if err != nil {
		return false, err
	}
	if reader == nil {
		return false, nil
	}
	return s.repo.MarkMessageRead(ctx, messageID, reader.ID)
}
