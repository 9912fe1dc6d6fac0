package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-stock-newsdigest/internal/ingestion/dto"
	"golang-stock-newsdigest/pkg/common"

	"github.com/redis/go-redis/v9"
)

// DigestEventRepository announces committed digests to other services.
type DigestEventRepository interface {
	PublishDigestUpdated(ctx context.Context, event dto.DigestUpdatedEvent) error
}

type redisDigestEventRepository struct {
	client redis.Cmdable
	maxLen int64
}

// NewRedisDigestEventRepository publishes to the news.digest.updated stream, trimming it to
// roughly maxLen entries.
func NewRedisDigestEventRepository(client redis.Cmdable, maxLen int64) DigestEventRepository {
	return &redisDigestEventRepository{client: client, maxLen: maxLen}
}

func (r *redisDigestEventRepository) PublishDigestUpdated(ctx context.Context, event dto.DigestUpdatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal digest event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: common.RedisStreamNewsDigestUpdated,
		Values: map[string]interface{}{"payload": string(payload)},
	}
	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}
	if err := r.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publish digest event: %w", err)
	}
	return nil
}
