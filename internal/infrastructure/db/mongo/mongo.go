package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectTimeout = 10 * time.Second
	queryTimeout   = 5 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping,
// and returns both the client and the selected database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Bootstrap creates every index the repositories rely on and seeds the role
// records. Idempotent; run once at startup before serving traffic.
func Bootstrap(ctx context.Context, db *mongo.Database) error {
	type indexed interface {
		EnsureIndexes(ctx context.Context) error
	}

	repos := []indexed{
		NewUserRepository(db),
		NewAdminRequestRepository(db),
		NewEventRepository(db),
		NewClubRepository(db),
		NewFollowRepository(db),
		NewSavedEventRepository(db),
		NewRegistrationRepository(db),
		NewNotificationRepository(db),
	}
	for _, r := range repos {
		if err := r.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo bootstrap: %w", err)
		}
	}

	return NewRoleRepository(db).EnsureDefaults(ctx)
}
