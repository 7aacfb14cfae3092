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

const notificationsCollection = "notifications"

// NotificationRepository implements ports.NotificationRepository.
type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(notificationsCollection)}
}

type notificationDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     primitive.ObjectID `bson:"user_id"`
	EventID    primitive.ObjectID `bson:"event_id"`
	EventTitle string             `bson:"event_title"`
	ClubName   string             `bson:"club_name"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d notificationDoc) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:         d.ID.Hex(),
		UserID:     d.UserID.Hex(),
		EventID:    d.EventID.Hex(),
		EventTitle: d.EventTitle,
		ClubName:   d.ClubName,
		CreatedAt:  d.CreatedAt,
	}
}

func (r *NotificationRepository) InsertMany(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(notifications))
	for _, n := range notifications {
		userOID, err := primitive.ObjectIDFromHex(n.UserID)
		if err != nil {
			return fmt.Errorf("notification user id %q: %w", n.UserID, err)
		}
		eventOID, err := primitive.ObjectIDFromHex(n.EventID)
		if err != nil {
			return fmt.Errorf("notification event id %q: %w", n.EventID, err)
		}
		docs = append(docs, notificationDoc{
			UserID:     userOID,
			EventID:    eventOID,
			EventTitle: n.EventTitle,
			ClubName:   n.ClubName,
			CreatedAt:  n.CreatedAt,
		})
	}

	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, bson.M{"user_id": userOID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]*domain.Notification, 0)
	for cur.Next(ctx) {
		var doc notificationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
