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

	"github.com/convergex/campus-events/internal/core/domain"
)

const clubsCollection = "clubs"

// ClubRepository implements ports.ClubRepository backed by MongoDB.
type ClubRepository struct {
	col *mongo.Collection
}

func NewClubRepository(db *mongo.Database) *ClubRepository {
	return &ClubRepository{col: db.Collection(clubsCollection)}
}

type clubDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	AdminID     primitive.ObjectID `bson:"admin_id"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d *clubDoc) toDomain() *domain.Club {
	return &domain.Club{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		AdminID:     d.AdminID.Hex(),
		CreatedAt:   d.CreatedAt,
	}
}

func (r *ClubRepository) Create(ctx context.Context, club *domain.Club) (*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	adminOID, err := primitive.ObjectIDFromHex(club.AdminID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := clubDoc{
		Name:        club.Name,
		Description: club.Description,
		AdminID:     adminOID,
		CreatedAt:   club.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		// A concurrent create of the same club name loses to the unique
		// index; surface the existing club instead.
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByName(ctx, club.Name)
		}
		return nil, fmt.Errorf("insert club: %w", err)
	}

	created := *club
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ClubRepository) FindByID(ctx context.Context, id string) (*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrClubNotFound
	}

	var doc clubDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClubNotFound
		}
		return nil, fmt.Errorf("find club: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClubRepository) FindByName(ctx context.Context, name string) (*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc clubDoc
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClubNotFound
		}
		return nil, fmt.Errorf("find club by name: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique club-name index.
func (r *ClubRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
