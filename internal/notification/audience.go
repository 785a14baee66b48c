package notification

import (
	"SchoolHub/internal/auth"
)

// ValidType reports whether t is a known notification type.
func ValidType(t string) bool {
	switch t {
	case "announcement", "assignment", "exam", "attendance", "fee", "general", "urgent":
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case "low", "medium", "high", "urgent":
		return true
	}
	return false
}

// ValidAudience checks the targeting rule: the scope must be known, and the
// grade/class scopes must carry their reference.
func ValidAudience(a TargetAudience) bool {
	switch a.Scope {
	case "all", "students", "teachers", "parents":
		return true
	case "grade":
		return a.Grade != ""
	case "class":
		return a.Class != ""
	}
	return false
}

// BuildRecipients materializes the read-state ledger from the users the
// audience resolved to. Entries are deduplicated on (user_id, user_role) so a
// flawed directory query cannot produce duplicate ledger rows; every entry
// starts unread with a nil read_at.
func BuildRecipients(users []*auth.User) []Recipient {
	type key struct {
		id   string
		role string
	}
	seen := make(map[key]bool, len(users))
	recipients := make([]Recipient, 0, len(users))
	for _, u := range users {
		k := key{id: u.ID.Hex(), role: u.Role}
		if seen[k] {
			continue
		}
		seen[k] = true
		recipients = append(recipients, Recipient{
			UserID:   u.ID,
			UserRole: u.Role,
			IsRead:   false,
			ReadAt:   nil,
		})
	}
	return recipients
}

// Why: Fan-out is eager and happens exactly once, at creation. Keeping it a
// pure function over the directory result makes the ledger construction
// testable without a database.
