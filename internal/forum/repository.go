package forum

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrTopicNotFound = errors.New("topic not found")

// ForumRepository handles DB operations for topics and replies.
type ForumRepository struct {
	topicsCollection  *mongo.Collection
	repliesCollection *mongo.Collection
}

// NewForumRepository creates a new repository for forum operations.
func NewForumRepository(db *mongo.Database) *ForumRepository {
	return &ForumRepository{
		topicsCollection:  db.Collection("topics"),
		repliesCollection: db.Collection("replies"),
	}
}

// CreateTopic inserts a new topic.
func (r *ForumRepository) CreateTopic(ctx context.Context, topic *Topic) error {
	_, err := r.topicsCollection.InsertOne(ctx, topic)
	return err
}

// FetchTopic returns a topic and counts the view in the same atomic update,
// so concurrent fetches never lose an increment.
func (r *ForumRepository) FetchTopic(ctx context.Context, id primitive.ObjectID) (*Topic, error) {
	filter := bson.M{"_id": id, "is_active": true}
	update := bson.M{"$inc": bson.M{"views": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var topic Topic
	err := r.topicsCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&topic)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}
	return &topic, nil
}

// FindAllTopics lists active topics, newest first.
func (r *ForumRepository) FindAllTopics(ctx context.Context) ([]*Topic, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.topicsCollection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	var topics []*Topic
	if err := cursor.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// CreateReply inserts a reply and bumps the topic's reply count.
func (r *ForumRepository) CreateReply(ctx context.Context, reply *Reply) error {
	res, err := r.topicsCollection.UpdateOne(ctx,
		bson.M{"_id": reply.TopicID, "is_active": true},
		bson.M{"$inc": bson.M{"reply_count": 1}, "$set": bson.M{"updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTopicNotFound
	}

	_, err = r.repliesCollection.InsertOne(ctx, reply)
	return err
}

// FindReplies returns a topic's replies in creation order.
func (r *ForumRepository) FindReplies(ctx context.Context, topicID primitive.ObjectID) ([]*Reply, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := r.repliesCollection.Find(ctx, bson.M{"topic_id": topicID}, opts)
	if err != nil {
		return nil, err
	}
	var replies []*Reply
	if err := cursor.All(ctx, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}
