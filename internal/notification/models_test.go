package notification

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestViewForProjectsOwnReadState(t *testing.T) {
	t.Parallel()

	readerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	readAt := time.Now()

	n := &Notification{
		ID:       primitive.NewObjectID(),
		Title:    "Fee reminder",
		Message:  "Term fees are due Friday",
		Type:     "fee",
		Priority: "high",
		Recipients: []Recipient{
			{UserID: otherID, UserRole: "parent", IsRead: false},
			{UserID: readerID, UserRole: "parent", IsRead: true, ReadAt: &readAt},
		},
	}

	view := n.ViewFor(readerID, "parent")
	if !view.IsRead {
		t.Fatal("view.IsRead = false, want true")
	}
	if view.ReadAt == nil || !view.ReadAt.Equal(readAt) {
		t.Fatalf("view.ReadAt = %v, want %v", view.ReadAt, readAt)
	}
	if view.Title != n.Title || view.Message != n.Message {
		t.Fatalf("view lost content: %+v", view)
	}
}

func TestViewForRoleIsPartOfTheKey(t *testing.T) {
	t.Parallel()

	userID := primitive.NewObjectID()
	readAt := time.Now()

	n := &Notification{
		Recipients: []Recipient{
			{UserID: userID, UserRole: "teacher", IsRead: true, ReadAt: &readAt},
		},
	}

	// Same user under a different role has no entry, so it reads as unread.
	view := n.ViewFor(userID, "parent")
	if view.IsRead {
		t.Fatal("view.IsRead = true for a role with no ledger entry, want false")
	}
	if view.ReadAt != nil {
		t.Fatalf("view.ReadAt = %v, want nil", view.ReadAt)
	}
}
