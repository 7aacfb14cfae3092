package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/convergex/campus-events/internal/core/domain"
)

const eventsCollection = "events"

// EventRepository implements ports.EventRepository backed by MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(eventsCollection)}
}

type eventDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	EventDate   string             `bson:"event_date"`
	EventTime   string             `bson:"event_time"`
	Location    string             `bson:"location"`
	ClubID      primitive.ObjectID `bson:"club_id"`
	ClubName    string             `bson:"club_name"`
	PostedByID  primitive.ObjectID `bson:"posted_by_id"`
	ImageURLs   []string           `bson:"image_urls,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d *eventDoc) toDomain() *domain.Event {
	return &domain.Event{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		EventDate:   d.EventDate,
		EventTime:   d.EventTime,
		Location:    d.Location,
		ClubID:      d.ClubID.Hex(),
		ClubName:    d.ClubName,
		PostedByID:  d.PostedByID.Hex(),
		ImageURLs:   d.ImageURLs,
		CreatedAt:   d.CreatedAt,
	}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	clubOID, err := primitive.ObjectIDFromHex(event.ClubID)
	if err != nil {
		return nil, domain.ErrClubNotFound
	}
	posterOID, err := primitive.ObjectIDFromHex(event.PostedByID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := eventDoc{
		Title:       event.Title,
		Description: event.Description,
		EventDate:   event.EventDate,
		EventTime:   event.EventTime,
		Location:    event.Location,
		ClubID:      clubOID,
		ClubName:    event.ClubName,
		PostedByID:  posterOID,
		ImageURLs:   event.ImageURLs,
		CreatedAt:   event.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	created := *event
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}

	var doc eventDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]*domain.Event, error) {
	return r.findAll(ctx, bson.M{})
}

func (r *EventRepository) FindByClubIDs(ctx context.Context, clubIDs []string) ([]*domain.Event, error) {
	oids := make([]primitive.ObjectID, 0, len(clubIDs))
	for _, id := range clubIDs {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return r.findAll(ctx, bson.M{"club_id": bson.M{"$in": oids}})
}

func (r *EventRepository) FindByPostedBy(ctx context.Context, userID string) ([]*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findAll(ctx, bson.M{"posted_by_id": oid})
}

func (r *EventRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return r.findAll(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

// SearchByTitle matches titles containing the query, case-insensitive.
func (r *EventRepository) SearchByTitle(ctx context.Context, query string) ([]*domain.Event, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return r.findAll(ctx, bson.M{"title": pattern})
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(event.ID)
	if err != nil {
		return domain.ErrEventNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":       event.Title,
		"description": event.Description,
		"event_date":  event.EventDate,
		"event_time":  event.EventTime,
		"location":    event.Location,
		"image_urls":  event.ImageURLs,
	}})
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEventNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) findAll(ctx context.Context, filter bson.M) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Event{}
	for cur.Next(ctx) {
		var doc eventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

// EnsureIndexes creates the lookup indexes used by the feed and search paths.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "club_id", Value: 1}}},
		{Keys: bson.D{{Key: "posted_by_id", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: 1}}},
	})
	return err
}
