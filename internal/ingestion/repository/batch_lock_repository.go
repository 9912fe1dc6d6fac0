package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BatchLockRepository guards against overlapping batch runs.
type BatchLockRepository interface {
	// Acquire returns a release func when the lock was taken, or ok=false when another run holds it.
	Acquire(ctx context.Context) (release func(context.Context) error, ok bool, err error)
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisBatchLockRepository struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedisBatchLockRepository creates a lock stored under key that expires after ttl.
func NewRedisBatchLockRepository(client redis.Cmdable, key string, ttl time.Duration) BatchLockRepository {
	return &redisBatchLockRepository{client: client, key: key, ttl: ttl}
}

func (r *redisBatchLockRepository) Acquire(ctx context.Context) (func(context.Context) error, bool, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, false, fmt.Errorf("generate lock token: %w", err)
	}
	token := hex.EncodeToString(buf)

	ok, err := r.client.SetNX(ctx, r.key, token, r.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, r.client, []string{r.key}, token).Err()
	}
	return release, true, nil
}
