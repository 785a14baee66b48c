package notification

import (
	"testing"

	"SchoolHub/internal/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidType(t *testing.T) {
	t.Parallel()

	for _, typ := range []string{"announcement", "assignment", "exam", "attendance", "fee", "general", "urgent"} {
		if !ValidType(typ) {
			t.Errorf("ValidType(%q) = false, want true", typ)
		}
	}
	if ValidType("reminder") {
		t.Error(`ValidType("reminder") = true, want false`)
	}
	if ValidType("") {
		t.Error(`ValidType("") = true, want false`)
	}
}

func TestValidPriority(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"low", "medium", "high", "urgent"} {
		if !ValidPriority(p) {
			t.Errorf("ValidPriority(%q) = false, want true", p)
		}
	}
	if ValidPriority("critical") {
		t.Error(`ValidPriority("critical") = true, want false`)
	}
}

func TestValidAudience(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		audience TargetAudience
		want     bool
	}{
		{"all", TargetAudience{Scope: "all"}, true},
		{"students", TargetAudience{Scope: "students"}, true},
		{"teachers", TargetAudience{Scope: "teachers"}, true},
		{"parents", TargetAudience{Scope: "parents"}, true},
		{"grade with reference", TargetAudience{Scope: "grade", Grade: "7"}, true},
		{"grade without reference", TargetAudience{Scope: "grade"}, false},
		{"class with reference", TargetAudience{Scope: "class", Class: "7A"}, true},
		{"class without reference", TargetAudience{Scope: "class"}, false},
		{"unknown scope", TargetAudience{Scope: "staff"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidAudience(tc.audience); got != tc.want {
				t.Fatalf("ValidAudience(%+v) = %v, want %v", tc.audience, got, tc.want)
			}
		})
	}
}

func TestBuildRecipientsMaterializesLedger(t *testing.T) {
	t.Parallel()

	// Three enrolled students in class 7A fan out to exactly three entries.
	users := []*auth.User{
		{ID: primitive.NewObjectID(), Role: "student", Class: "7A"},
		{ID: primitive.NewObjectID(), Role: "student", Class: "7A"},
		{ID: primitive.NewObjectID(), Role: "student", Class: "7A"},
	}

	recipients := BuildRecipients(users)
	if len(recipients) != 3 {
		t.Fatalf("len(recipients) = %d, want 3", len(recipients))
	}
	for i, rec := range recipients {
		if rec.UserID != users[i].ID {
			t.Errorf("recipients[%d].UserID = %v, want %v", i, rec.UserID, users[i].ID)
		}
		if rec.UserRole != "student" {
			t.Errorf("recipients[%d].UserRole = %q, want %q", i, rec.UserRole, "student")
		}
		if rec.IsRead {
			t.Errorf("recipients[%d].IsRead = true, want false", i)
		}
		if rec.ReadAt != nil {
			t.Errorf("recipients[%d].ReadAt = %v, want nil", i, rec.ReadAt)
		}
	}
}

func TestBuildRecipientsDeduplicates(t *testing.T) {
	t.Parallel()

	id := primitive.NewObjectID()
	users := []*auth.User{
		{ID: id, Role: "student"},
		{ID: id, Role: "student"},
		{ID: id, Role: "parent"},
	}

	recipients := BuildRecipients(users)
	if len(recipients) != 2 {
		t.Fatalf("len(recipients) = %d, want 2 (same user under two roles)", len(recipients))
	}
	if recipients[0].UserRole == recipients[1].UserRole {
		t.Fatalf("duplicate (user, role) pair survived dedupe: %q", recipients[0].UserRole)
	}
}

func TestBuildRecipientsEmptyDirectory(t *testing.T) {
	t.Parallel()

	recipients := BuildRecipients(nil)
	if len(recipients) != 0 {
		t.Fatalf("len(recipients) = %d, want 0", len(recipients))
	}
}
