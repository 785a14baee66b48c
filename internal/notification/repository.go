package notification

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a notification does not exist. At the API
// boundary "no such notification" and "no matching ledger entry" both
// surface as not found.
var ErrNotFound = errors.New("notification not found")

// NotificationRepository handles DB operations for notifications.
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new repository for notifications.
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{collection: db.Collection("notifications")}
}

// The read-state precondition lives in the mutation filter itself, never in a
// prior read, so a concurrent MarkRead/MarkAllRead on the same entry cannot
// lose an update.

// markReadFilter matches the notification only if it holds an unread ledger
// entry for (userID, userRole).
func markReadFilter(id, userID primitive.ObjectID, userRole string) bson.M {
	return bson.M{
		"_id": id,
		"recipients": bson.M{"$elemMatch": bson.M{
			"user_id":   userID,
			"user_role": userRole,
			"is_read":   false,
		}},
	}
}

// markReadUpdate flips the first entry matched by the filter's $elemMatch via
// the positional operator.
func markReadUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"recipients.$.is_read": true,
		"recipients.$.read_at": now,
		"updated_at":           now,
	}}
}

// recipientExistsFilter matches regardless of read state, to tell "already
// read" apart from "not a recipient".
func recipientExistsFilter(id, userID primitive.ObjectID, userRole string) bson.M {
	return bson.M{
		"_id": id,
		"recipients": bson.M{"$elemMatch": bson.M{
			"user_id":   userID,
			"user_role": userRole,
		}},
	}
}

func markAllReadFilter(userID primitive.ObjectID, userRole string) bson.M {
	return bson.M{
		"recipients": bson.M{"$elemMatch": bson.M{
			"user_id":   userID,
			"user_role": userRole,
			"is_read":   false,
		}},
	}
}

func markAllReadUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"recipients.$[entry].is_read": true,
		"recipients.$[entry].read_at": now,
		"updated_at":                  now,
	}}
}

func markAllReadArrayFilters(userID primitive.ObjectID, userRole string) bson.A {
	return bson.A{bson.M{
		"entry.user_id":   userID,
		"entry.user_role": userRole,
		"entry.is_read":   false,
	}}
}

// CreateNotification inserts a notification with its materialized ledger.
func (r *NotificationRepository) CreateNotification(ctx context.Context, n *Notification) error {
	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// FindByID fetches a single notification, nil when absent.
func (r *NotificationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Notification, error) {
	var n Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// MarkRead flips one recipient's entry to read. Returns false when neither an
// unread nor a read entry exists for (userID, userRole) in that notification.
// A second call on an already-read entry is a no-op that still reports true,
// and the original read_at is preserved.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID, userRole string) (bool, error) {
	now := time.Now()
	res, err := r.collection.UpdateOne(ctx, markReadFilter(id, userID, userRole), markReadUpdate(now))
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return markReadOutcome(res, 0), nil
	}

	// No unread entry matched; the entry may simply already be read.
	count, err := r.collection.CountDocuments(ctx, recipientExistsFilter(id, userID, userRole))
	if err != nil {
		return false, err
	}
	return markReadOutcome(res, count), nil
}

// markReadOutcome decides what MarkRead reports once the unread-filter update
// and, when needed, the existence check have run. An update that matched means
// the entry was just flipped; a zero match with an existing entry means it
// was already read, so the call is an idempotent success and read_at stays as
// first recorded. Only a missing entry reports false.
func markReadOutcome(res *mongo.UpdateResult, existing int64) bool {
	if res.MatchedCount > 0 {
		return true
	}
	return existing > 0
}

// MarkAllRead flips every unread entry for (userID, userRole) across all
// notifications. The returned count is ModifiedCount, i.e. documents changed;
// since a ledger holds at most one entry per (user, role) pair that equals the
// number of entries flipped, even though the arrayFilters would flip every
// match within a document. Zero is a valid result when nothing is unread.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID, userRole string) (int64, error) {
	now := time.Now()
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: markAllReadArrayFilters(userID, userRole),
	})
	res, err := r.collection.UpdateMany(ctx, markAllReadFilter(userID, userRole), markAllReadUpdate(now), opts)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// FindForRecipient lists active, unexpired notifications whose ledger
// contains (userID, userRole), newest first. Expired notifications are only
// filtered here, never deleted.
func (r *NotificationRepository) FindForRecipient(ctx context.Context, userID primitive.ObjectID, userRole string, now time.Time) ([]*Notification, error) {
	filter := bson.M{
		"is_active": true,
		"recipients": bson.M{"$elemMatch": bson.M{
			"user_id":   userID,
			"user_role": userRole,
		}},
		"$or": bson.A{
			bson.M{"expires_at": bson.M{"$exists": false}},
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": now}},
		},
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var notifications []*Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// Deactivate soft-deletes a notification. The document and its ledger stay in
// place.
func (r *NotificationRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindPendingEmail fetches urgent notifications whose email dispatch has not
// happened yet.
func (r *NotificationRepository) FindPendingEmail(ctx context.Context) ([]*Notification, error) {
	filter := bson.M{"priority": "urgent", "email_status": "pending"}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var notifications []*Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// UpdateEmailStatus records the outcome of an urgent email dispatch.
func (r *NotificationRepository) UpdateEmailStatus(ctx context.Context, id primitive.ObjectID, status string, emailedTo []string) error {
	update := bson.M{"$set": bson.M{"email_status": status, "emailed_to": emailedTo, "updated_at": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Why: This repository abstracts DB access for notifications; every
// read-state mutation is a single-document atomic update.
