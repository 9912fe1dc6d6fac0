package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"golang-stock-newsdigest/internal/api/service"
	ingestiondto "golang-stock-newsdigest/internal/ingestion/dto"
	"golang-stock-newsdigest/pkg/common"
	"golang-stock-newsdigest/pkg/logger"
	"golang-stock-newsdigest/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// DigestUpdateConsumer evicts cached responses when the ingestion service announces a new
// digest on the news.digest.updated stream. The cache lives in process memory, so every API
// instance reads through its own consumer group and sees every entry.
type DigestUpdateConsumer struct {
	redisClient   *redis.Client
	digestService service.NewsDigestService
	group         string
	consumerName  string
	block         time.Duration
	count         int64
	logger        *logger.Logger
	stopChan      chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
}

// NewDigestUpdateConsumer creates a new DigestUpdateConsumer.
func NewDigestUpdateConsumer(redisClient *redis.Client, digestService service.NewsDigestService, group, consumerName string, block time.Duration, count int64, log *logger.Logger) *DigestUpdateConsumer {
	if group == "" {
		group = common.RedisStreamGroup
	}
	if consumerName == "" {
		consumerName = common.RedisStreamConsumer
	}
	if count <= 0 {
		count = 10
	}
	return &DigestUpdateConsumer{
		redisClient:   redisClient,
		digestService: digestService,
		group:         group,
		consumerName:  consumerName,
		block:         block,
		count:         count,
		logger:        log,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the consumer loop in the background.
func (c *DigestUpdateConsumer) Start(ctx context.Context) {
	c.logger.Info("Digest update consumer started",
		logger.StringField("stream", common.RedisStreamNewsDigestUpdated),
		logger.StringField("group", c.group),
	)
	c.wg.Add(1)
	utils.GoSafe(c.logger, func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Digest update consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Digest update consumer stopping")
				return
			default:
				c.ProcessMessages(ctx)
			}
		}
	})
}

// ProcessMessages reads one batch of stream entries and evicts the symbols they name.
// Malformed entries are acknowledged and dropped.
func (c *DigestUpdateConsumer) ProcessMessages(ctx context.Context) int {
	streams, err := c.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumerName,
		Streams:  []string{common.RedisStreamNewsDigestUpdated, ">"},
		Count:    c.count,
		Block:    c.block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0
		}
		c.logger.Error("Failed to read from stream", logger.ErrorField(err))
		time.Sleep(time.Second)
		return 0
	}

	handled := 0
	for _, stream := range streams {
		for _, message := range stream.Messages {
			c.handleMessage(message)
			if err := c.redisClient.XAck(ctx, common.RedisStreamNewsDigestUpdated, c.group, message.ID).Err(); err != nil {
				c.logger.Warn("Failed to ack digest update", logger.ErrorField(err), logger.StringField("message_id", message.ID))
			}
			handled++
		}
	}
	return handled
}

func (c *DigestUpdateConsumer) handleMessage(message redis.XMessage) {
	payload, ok := message.Values["payload"].(string)
	if !ok {
		c.logger.Warn("Digest update without payload", logger.StringField("message_id", message.ID))
		return
	}

	var event ingestiondto.DigestUpdatedEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil || event.Symbol == "" {
		c.logger.Warn("Malformed digest update", logger.StringField("message_id", message.ID), logger.StringField("payload", payload))
		return
	}

	c.digestService.InvalidateSymbol(event.Symbol)
}

// Stop gracefully shuts down the consumer.
func (c *DigestUpdateConsumer) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
	c.logger.Info("Digest update consumer stopped")
}
