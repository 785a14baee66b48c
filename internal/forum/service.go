package forum

import (
	"SchoolHub/internal/auth"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

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

// ForumService coordinates topic and reply operations.
type ForumService struct {
	repo     *ForumRepository
	userRepo *auth.UserRepository
}

// NewForumService creates a new ForumService.
func NewForumService(repo *ForumRepository, userRepo *auth.UserRepository) *ForumService {
	return &ForumService{repo: repo, userRepo: userRepo}
}

// CreateTopic opens a new discussion thread authored by the caller.
func (s *ForumService) CreateTopic(ctx context.Context, authorEmail, title, content, category string) (*Topic, error) {
	if title == "" || content == "" {
		return nil, invalidInput("title and content are required")
	}
	author, err := s.userRepo.FindByEmail(ctx, authorEmail)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errors.New("author not found")
	}

	now := time.Now()
	topic := &Topic{
		ID:         primitive.NewObjectID(),
		Title:      title,
		Content:    content,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		AuthorRole: author.Role,
		Category:   category,
		Views:      0,
		ReplyCount: 0,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// GetTopic fetches a topic, counting the view.
func (s *ForumService) GetTopic(ctx context.Context, id primitive.ObjectID) (*Topic, error) {
	return s.repo.FetchTopic(ctx, id)
}

// ListTopics lists active topics, newest first.
func (s *ForumService) ListTopics(ctx context.Context) ([]*Topic, error) {
	return s.repo.FindAllTopics(ctx)
}

// AddReply appends a reply to an active topic.
func (s *ForumService) AddReply(ctx context.Context, topicID primitive.ObjectID, authorEmail, content string) (*Reply, error) {
	if content == "" {
		return nil, invalidInput("content is required")
	}
	author, err := s.userRepo.FindByEmail(ctx, authorEmail)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errors.New("author not found")
	}

	reply := &Reply{
		ID:         primitive.NewObjectID(),
		TopicID:    topicID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		AuthorRole: author.Role,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// ListReplies returns a topic's replies in creation order.
func (s *ForumService) ListReplies(ctx context.Context, topicID primitive.ObjectID) ([]*Reply, error) {
	return s.repo.FindReplies(ctx, topicID)
}
