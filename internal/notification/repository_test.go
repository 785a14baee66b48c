package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// The mutation filters carry the read-state precondition themselves; these
// tests pin that shape so the update path can never regress into
// read-then-write.

func TestMarkReadFilterRequiresUnreadEntry(t *testing.T) {
	t.Parallel()

	id := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := markReadFilter(id, userID, "student")

	assert.Equal(t, bson.M{
		"_id": id,
		"recipients": bson.M{"$elemMatch": bson.M{
			"user_id":   userID,
			"user_role": "student",
			"is_read":   false,
		}},
	}, filter)
}

func TestMarkReadUpdateFlipsPositionalEntry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	update := markReadUpdate(now)

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("update has no $set document: %v", update)
	}
	assert.Equal(t, true, set["recipients.$.is_read"])
	assert.Equal(t, now, set["recipients.$.read_at"])
	assert.Equal(t, now, set["updated_at"])
}

func TestRecipientExistsFilterIgnoresReadState(t *testing.T) {
	t.Parallel()

	id := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := recipientExistsFilter(id, userID, "parent")

	elem := filter["recipients"].(bson.M)["$elemMatch"].(bson.M)
	if _, hasReadState := elem["is_read"]; hasReadState {
		t.Fatal("existence filter must not constrain is_read, or already-read entries would report matched=false")
	}
	assert.Equal(t, userID, elem["user_id"])
	assert.Equal(t, "parent", elem["user_role"])
}

func TestMarkAllReadScopedToCompositeKey(t *testing.T) {
	t.Parallel()

	userID := primitive.NewObjectID()

	filter := markAllReadFilter(userID, "teacher")
	elem := filter["recipients"].(bson.M)["$elemMatch"].(bson.M)
	assert.Equal(t, userID, elem["user_id"])
	assert.Equal(t, "teacher", elem["user_role"])
	assert.Equal(t, false, elem["is_read"])

	arrayFilters := markAllReadArrayFilters(userID, "teacher")
	if len(arrayFilters) != 1 {
		t.Fatalf("len(arrayFilters) = %d, want 1", len(arrayFilters))
	}
	entry := arrayFilters[0].(bson.M)
	assert.Equal(t, userID, entry["entry.user_id"])
	assert.Equal(t, "teacher", entry["entry.user_role"])
	assert.Equal(t, false, entry["entry.is_read"],
		"array filter must exclude read entries so a flawed-duplicate flip never rewrites read_at")
}

func TestMarkReadOutcome(t *testing.T) {
	t.Parallel()

	t.Run("unread entry flipped", func(t *testing.T) {
		t.Parallel()
		res := &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}
		if !markReadOutcome(res, 0) {
			t.Fatal("a matched update must report true")
		}
	})

	t.Run("already read is an idempotent success", func(t *testing.T) {
		t.Parallel()
		// The unread-filter update matched nothing, but the entry exists:
		// the earlier read stands and read_at is not rewritten.
		res := &mongo.UpdateResult{MatchedCount: 0, ModifiedCount: 0}
		if !markReadOutcome(res, 1) {
			t.Fatal("an existing read entry must still report true")
		}
	})

	t.Run("no ledger entry", func(t *testing.T) {
		t.Parallel()
		res := &mongo.UpdateResult{MatchedCount: 0, ModifiedCount: 0}
		if markReadOutcome(res, 0) {
			t.Fatal("a user outside the ledger must report false")
		}
	})
}

func TestMarkAllReadUpdateTargetsFilteredEntries(t *testing.T) {
	t.Parallel()

	now := time.Now()
	update := markAllReadUpdate(now)

	set := update["$set"].(bson.M)
	assert.Equal(t, true, set["recipients.$[entry].is_read"])
	assert.Equal(t, now, set["recipients.$[entry].read_at"])
}
