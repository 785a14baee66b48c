package forum

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Title and content checks run before the author lookup, so a service with
// nil collaborators exercises the rejection paths directly.

func TestCreateTopicRequiresTitleAndContent(t *testing.T) {
	t.Parallel()

	service := NewForumService(nil, nil)

	for _, tc := range []struct {
		name           string
		title, content string
	}{
		{name: "missing title", title: "", content: "Anyone else confused by problem 3?"},
		{name: "missing content", title: "Math homework", content: ""},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := service.CreateTopic(context.Background(), "student@school.test", tc.title, tc.content, "academics")
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !IsInvalidInput(err) {
				t.Fatalf("error %q must be recognized as invalid input so the handler maps it to 400", err)
			}
		})
	}
}

func TestAddReplyRequiresContent(t *testing.T) {
	t.Parallel()

	service := NewForumService(nil, nil)

	_, err := service.AddReply(context.Background(), primitive.NewObjectID(), "student@school.test", "")
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !IsInvalidInput(err) {
		t.Fatalf("error %q must be recognized as invalid input so the handler maps it to 400", err)
	}
}

func TestTopicNotFoundIsNotInvalidInput(t *testing.T) {
	t.Parallel()

	if IsInvalidInput(ErrTopicNotFound) {
		t.Fatal("ErrTopicNotFound maps to 404, not 400")
	}
	if IsInvalidInput(errors.New("write conflict")) {
		t.Fatal("a storage fault must not be treated as a validation failure")
	}
}
