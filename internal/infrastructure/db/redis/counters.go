package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const counterTTL = 6 * time.Hour

// RegistrationCounter keeps per-event registration counts in Redis so the
// organizer dashboard does not hit Mongo for every event. Entries expire and
// are re-primed from the repository count on the next miss.
type RegistrationCounter struct {
	client *redis.Client
}

func NewRegistrationCounter(client *redis.Client) *RegistrationCounter {
	return &RegistrationCounter{client: client}
}

func counterKey(eventID string) string {
	return fmt.Sprintf("event:%s:registrations", eventID)
}

// incrIfExists bumps the key only when it is still present, in a single
// server-side step. A separate EXISTS check followed by INCR would race with
// expiry: the TTL can fire in between and INCR would then recreate the key as
// 1 with no TTL, permanently shadowing the authoritative count.
var incrIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("INCR", KEYS[1])
end
return -1
`)

// Incr bumps the cached count. Missing keys are left alone so a later Get
// reports a miss and the caller primes from the source of truth.
func (c *RegistrationCounter) Incr(ctx context.Context, eventID string) error {
	if err := incrIfExists.Run(ctx, c.client, []string{counterKey(eventID)}).Err(); err != nil {
		return fmt.Errorf("counter incr: %w", err)
	}
	return nil
}

// Get returns the cached count and whether the key was present.
func (c *RegistrationCounter) Get(ctx context.Context, eventID string) (int64, bool, error) {
	n, err := c.client.Get(ctx, counterKey(eventID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("counter get: %w", err)
	}
	return n, true, nil
}

// Prime seeds the cache with an authoritative count.
func (c *RegistrationCounter) Prime(ctx context.Context, eventID string, count int64) error {
	if err := c.client.Set(ctx, counterKey(eventID), count, counterTTL).Err(); err != nil {
		return fmt.Errorf("counter prime: %w", err)
	}
	return nil
}
