package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/threadline/messaging-api/internal/core/domain"
	"github.com/threadline/messaging-api/internal/core/ports"
)

const messagesCollection = "messages"

// MessageRepository persists messages in the "messages" collection.
type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection(messagesCollection)}
}

type mongoMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Text      string             `bson:"text"`
	UserID    primitive.ObjectID `bson:"user_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (mm *mongoMessage) toDomain() *domain.Message {
	return &domain.Message{
		ID:        mm.ID.Hex(),
		Text:      mm.Text,
		UserID:    mm.UserID.Hex(),
		CreatedAt: mm.CreatedAt,
		UpdatedAt: mm.UpdatedAt,
	}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	author, err := primitive.ObjectIDFromHex(message.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q: %w", message.UserID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoMessage{
		ID:        primitive.NewObjectID(),
		Text:      message.Text,
		UserID:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID returns domain.ErrMessageNotFound for unknown and malformed ids
// alike.
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMessageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mm mongoMessage
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mm); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return mm.toDomain(), nil
}

// List returns messages in (created_at desc, _id desc) order. The cursor
// filter uses the same pair: a plain created_at < t would skip messages
// sharing their timestamp with the previous page's last edge, and Mongo's
// millisecond datetime precision makes such ties realistic.
func (r *MessageRepository) List(ctx context.Context, page ports.MessagePage) ([]domain.Message, error) {
	filter := bson.M{}
	if !page.Before.IsZero() {
		if beforeID, err := primitive.ObjectIDFromHex(page.BeforeID); err == nil {
			filter["$or"] = []bson.M{
				{"created_at": bson.M{"$lt": page.Before}},
				{"created_at": page.Before, "_id": bson.M{"$lt": beforeID}},
			}
		} else {
			filter["created_at"] = bson.M{"$lt": page.Before}
		}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	return r.find(ctx, filter, opts)
}

func (r *MessageRepository) ListByAuthor(ctx context.Context, userID string) ([]domain.Message, error) {
	author, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []domain.Message{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": author}, opts)
}

func (r *MessageRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	messages := make([]domain.Message, 0)
	for cur.Next(ctx) {
		var mm mongoMessage
		if err := cur.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		messages = append(messages, *mm.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrMessageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

// DeleteByAuthor removes every message authored by the given user. Called
// from the user delete cascade; zero matches is a success.
func (r *MessageRepository) DeleteByAuthor(ctx context.Context, userID string) (int64, error) {
	author, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": author})
	if err != nil {
		return 0, fmt.Errorf("delete messages by author: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the lookup indexes used by pagination and the
// author cascade.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		// Compound: pagination sorts and filters on (created_at, _id).
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
