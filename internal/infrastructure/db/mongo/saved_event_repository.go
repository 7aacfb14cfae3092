package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/convergex/campus-events/internal/core/domain"
)

const savedEventsCollection = "user_saved_events"

// SavedEventRepository implements ports.SavedEventRepository.
type SavedEventRepository struct {
	col *mongo.Collection
}

func NewSavedEventRepository(db *mongo.Database) *SavedEventRepository {
	return &SavedEventRepository{col: db.Collection(savedEventsCollection)}
}

type savedEventDoc struct {
	UserID  primitive.ObjectID `bson:"user_id"`
	EventID primitive.ObjectID `bson:"event_id"`
}

func userEventFilter(userID, eventID string) (bson.M, error) {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	eventOID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}
	return bson.M{"user_id": userOID, "event_id": eventOID}, nil
}

func (r *SavedEventRepository) Create(ctx context.Context, userID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter, err := userEventFilter(userID, eventID)
	if err != nil {
		return err
	}

	_, err = r.col.InsertOne(ctx, savedEventDoc{
		UserID:  filter["user_id"].(primitive.ObjectID),
		EventID: filter["event_id"].(primitive.ObjectID),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEventAlreadySaved
		}
		return fmt.Errorf("insert saved event: %w", err)
	}
	return nil
}

func (r *SavedEventRepository) Delete(ctx context.Context, userID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter, err := userEventFilter(userID, eventID)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete saved event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotSaved
	}
	return nil
}

func (r *SavedEventRepository) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter, err := userEventFilter(userID, eventID)
	if err != nil {
		return false, err
	}

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count saved events: %w", err)
	}
	return n > 0, nil
}

func (r *SavedEventRepository) EventIDsByUser(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	cur, err := r.col.Find(ctx, bson.M{"user_id": userOID})
	if err != nil {
		return nil, fmt.Errorf("list saved events: %w", err)
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var doc savedEventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode saved event: %w", err)
		}
		out = append(out, doc.EventID.Hex())
	}
	return out, cur.Err()
}

func (r *SavedEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "event_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
