package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/convergex/campus-events/internal/core/domain"
)

const registrationsCollection = "event_registrations"

// RegistrationRepository implements ports.RegistrationRepository.
// Registrations are append-only; there is no unregister operation.
type RegistrationRepository struct {
	col *mongo.Collection
}

func NewRegistrationRepository(db *mongo.Database) *RegistrationRepository {
	return &RegistrationRepository{col: db.Collection(registrationsCollection)}
}

type registrationDoc struct {
	UserID       primitive.ObjectID `bson:"user_id"`
	EventID      primitive.ObjectID `bson:"event_id"`
	RegisteredAt time.Time          `bson:"registered_at"`
}

func (r *RegistrationRepository) Create(ctx context.Context, userID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter, err := userEventFilter(userID, eventID)
	if err != nil {
		return err
	}

	_, err = r.col.InsertOne(ctx, registrationDoc{
		UserID:       filter["user_id"].(primitive.ObjectID),
		EventID:      filter["event_id"].(primitive.ObjectID),
		RegisteredAt: time.Now().UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter, err := userEventFilter(userID, eventID)
	if err != nil {
		return false, err
	}

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count registrations: %w", err)
	}
	return n > 0, nil
}

func (r *RegistrationRepository) EventIDsByUser(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	cur, err := r.col.Find(ctx, bson.M{"user_id": userOID})
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var doc registrationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode registration: %w", err)
		}
		out = append(out, doc.EventID.Hex())
	}
	return out, cur.Err()
}

func (r *RegistrationRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	eventOID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return 0, domain.ErrEventNotFound
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"event_id": eventOID})
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

func (r *RegistrationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "event_id", Value: 1}}},
	})
	return err
}
