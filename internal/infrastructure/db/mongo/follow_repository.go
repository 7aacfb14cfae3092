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

const followsCollection = "user_follows_club"

// FollowRepository implements ports.FollowRepository. The unique compound
// index on (user_id, club_id) makes duplicate follows impossible under
// concurrency.
type FollowRepository struct {
	col *mongo.Collection
}

func NewFollowRepository(db *mongo.Database) *FollowRepository {
	return &FollowRepository{col: db.Collection(followsCollection)}
}

type followDoc struct {
	UserID primitive.ObjectID `bson:"user_id"`
	ClubID primitive.ObjectID `bson:"club_id"`
}

func followFilter(userID, clubID string) (bson.M, error) {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	clubOID, err := primitive.ObjectIDFromHex(clubID)
	if err != nil {
		return nil, domain.ErrClubNotFound
	}
	return bson.M{"user_id": userOID, "club_id": clubOID}, nil
}

func (r *FollowRepository) Create(ctx context.Context, userID, clubID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter, err := followFilter(userID, clubID)
	if err != nil {
		return err
	}

	_, err = r.col.InsertOne(ctx, followDoc{
		UserID: filter["user_id"].(primitive.ObjectID),
		ClubID: filter["club_id"].(primitive.ObjectID),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyFollowing
		}
		return fmt.Errorf("insert follow: %w", err)
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, userID, clubID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter, err := followFilter(userID, clubID)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFollowing
	}
	return nil
}

func (r *FollowRepository) Exists(ctx context.Context, userID, clubID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter, err := followFilter(userID, clubID)
	if err != nil {
		return false, err
	}

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count follows: %w", err)
	}
	return n > 0, nil
}

func (r *FollowRepository) ClubIDsByUser(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	cur, err := r.col.Find(ctx, bson.M{"user_id": userOID})
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var doc followDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode follow: %w", err)
		}
		out = append(out, doc.ClubID.Hex())
	}
	return out, cur.Err()
}

func (r *FollowRepository) FollowerIDsByClub(ctx context.Context, clubID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	clubOID, err := primitive.ObjectIDFromHex(clubID)
	if err != nil {
		return nil, domain.ErrClubNotFound
	}

	cur, err := r.col.Find(ctx, bson.M{"club_id": clubOID})
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var doc followDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode follow: %w", err)
		}
		out = append(out, doc.UserID.Hex())
	}
	return out, cur.Err()
}

// EnsureIndexes creates the unique (user_id, club_id) pair index and the
// fan-out lookup index on club_id.
func (r *FollowRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "club_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "club_id", Value: 1}}},
	})
	return err
}
