package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/convergex/campus-events/internal/core/domain"
)

const rolesCollection = "roles"

// RoleRepository holds the seeded role records. Business flows only ever look
// roles up; the records are created once by EnsureDefaults at startup.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(rolesCollection)}
}

// EnsureDefaults upserts the three default roles. Idempotent.
func (r *RoleRepository) EnsureDefaults(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	if _, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("ensure role index: %w", err)
	}

	for _, role := range domain.DefaultRoles {
		_, err := r.col.UpdateOne(ctx,
			bson.M{"name": string(role)},
			bson.M{"$setOnInsert": bson.M{"name": string(role)}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
	}
	return nil
}

// Find returns the role by name, or domain.ErrRoleNotSeeded when the seed
// invariant is broken.
func (r *RoleRepository) Find(ctx context.Context, name domain.Role) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc struct {
		Name string `bson:"name"`
	}
	if err := r.col.FindOne(ctx, bson.M{"name": string(name)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrRoleNotSeeded
		}
		return "", fmt.Errorf("find role: %w", err)
	}
	return domain.Role(doc.Name), nil
}
