package notification

import (
	"context"
	"errors"
	"testing"
)

// Validation runs before any repository access, so a service with nil
// collaborators exercises the rejection paths directly.

func TestCreateNotificationRejectsBadInput(t *testing.T) {
	t.Parallel()

	service := NewNotificationService(nil, nil, nil)

	cases := []struct {
		name string
		n    *Notification
	}{
		{
			name: "unknown type",
			n: &Notification{
				Type:           "megaphone",
				Priority:       "medium",
				TargetAudience: TargetAudience{Scope: "all"},
			},
		},
		{
			name: "unknown priority",
			n: &Notification{
				Type:           "announcement",
				Priority:       "extreme",
				TargetAudience: TargetAudience{Scope: "all"},
			},
		},
		{
			name: "grade scope without grade",
			n: &Notification{
				Type:           "announcement",
				Priority:       "medium",
				TargetAudience: TargetAudience{Scope: "grade"},
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := service.CreateNotification(context.Background(), tc.n)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !IsInvalidInput(err) {
				t.Fatalf("error %q must be recognized as invalid input so the handler maps it to 400", err)
			}
		})
	}
}

func TestIsInvalidInputIgnoresOtherErrors(t *testing.T) {
	t.Parallel()

	if IsInvalidInput(errors.New("connection reset")) {
		t.Fatal("a plain error must not be treated as a validation failure")
	}
	if IsInvalidInput(ErrNotFound) {
		t.Fatal("ErrNotFound must not be treated as a validation failure")
	}
	if IsInvalidInput(nil) {
		t.Fatal("nil is not a validation failure")
	}
}
