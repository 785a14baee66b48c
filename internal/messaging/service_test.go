package messaging

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category and content checks run before any user or conversation lookup, so
// a service with nil collaborators exercises the rejection paths directly.

func TestStartConversationRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	service := NewMessagingService(nil, nil)

	_, err := service.StartConversation(context.Background(), "parent@school.test",
		primitive.NewObjectID(), "Homework", "gossip", "Hello", nil)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !IsInvalidInput(err) {
		t.Fatalf("error %q must be recognized as invalid input so the handler maps it to 400", err)
	}
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	t.Parallel()

	service := NewMessagingService(nil, nil)

	_, err := service.SendMessage(context.Background(), primitive.NewObjectID(), "parent@school.test", "", nil)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !IsInvalidInput(err) {
		t.Fatalf("error %q must be recognized as invalid input so the handler maps it to 400", err)
	}
}

func TestStorageErrorsAreNotInvalidInput(t *testing.T) {
	t.Parallel()

	if IsInvalidInput(errors.New("server selection timeout")) {
		t.Fatal("a storage fault must not be treated as a validation failure")
	}
	if IsInvalidInput(ErrConversationNotFound) {
		t.Fatal("ErrConversationNotFound maps to 404, not 400")
	}
	if IsInvalidInput(ErrNotParticipant) {
		t.Fatal("ErrNotParticipant maps to 403, not 400")
	}
}
