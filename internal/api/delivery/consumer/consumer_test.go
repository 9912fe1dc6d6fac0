package consumer

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"golang-stock-newsdigest/internal/api/dto"
	ingestiondto "golang-stock-newsdigest/internal/ingestion/dto"
	"golang-stock-newsdigest/internal/ingestion/repository"
	"golang-stock-newsdigest/pkg/common"
	"golang-stock-newsdigest/pkg/logger"
	pkgredis "golang-stock-newsdigest/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDigestService struct {
	mu          sync.Mutex
	invalidated []string
}

func (r *recordingDigestService) GetWatchlistedSecurities(context.Context) ([]dto.SecurityResponse, error) {
	return nil, nil
}

func (r *recordingDigestService) GetNewsSummary(context.Context, string) (*dto.NewsSummaryResponse, error) {
	return nil, nil
}

func (r *recordingDigestService) GetRecentNews(context.Context, string, int) ([]dto.NewsItemResponse, error) {
	return nil, nil
}

func (r *recordingDigestService) GetUpcomingEvents(context.Context, string) ([]dto.UpcomingEventResponse, error) {
	return nil, nil
}

func (r *recordingDigestService) InvalidateSymbol(symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, symbol)
}

func (r *recordingDigestService) symbols() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.invalidated...)
}

const testGroup = common.RedisStreamGroup + "-test"

func newTestRedis(t *testing.T) *pkgredis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := &pkgredis.Client{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.EnsureGroup(context.Background(), common.RedisStreamNewsDigestUpdated, testGroup))
	// a second call must tolerate the existing group
	require.NoError(t, client.EnsureGroup(context.Background(), common.RedisStreamNewsDigestUpdated, testGroup))
	return client
}

func TestDigestUpdateConsumer_ProcessMessages(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	publisher := repository.NewRedisDigestEventRepository(client.Client, 100)
	require.NoError(t, publisher.PublishDigestUpdated(ctx, ingestiondto.DigestUpdatedEvent{Symbol: "AAPL", SummaryID: 1}))
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamNewsDigestUpdated,
		Values: map[string]interface{}{"payload": "not json"},
	}).Err())
	payload, _ := json.Marshal(ingestiondto.DigestUpdatedEvent{Symbol: "MSFT", SummaryID: 2})
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamNewsDigestUpdated,
		Values: map[string]interface{}{"payload": string(payload)},
	}).Err())

	svc := &recordingDigestService{}
	consumer := NewDigestUpdateConsumer(client.Client, svc, testGroup, "test-consumer", 10*time.Millisecond, 10, logger.NewNop())

	handled := consumer.ProcessMessages(ctx)
	assert.Equal(t, 3, handled)
	assert.Equal(t, []string{"AAPL", "MSFT"}, svc.symbols())

	pending, err := client.XPending(ctx, common.RedisStreamNewsDigestUpdated, testGroup).Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)

	assert.Zero(t, consumer.ProcessMessages(ctx))
}

func TestDigestUpdateConsumer_StartStop(t *testing.T) {
	client := newTestRedis(t)
	svc := &recordingDigestService{}
	consumer := NewDigestUpdateConsumer(client.Client, svc, testGroup, "test-consumer", 10*time.Millisecond, 10, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer.Start(ctx)

	publisher := repository.NewRedisDigestEventRepository(client.Client, 0)
	require.NoError(t, publisher.PublishDigestUpdated(context.Background(), ingestiondto.DigestUpdatedEvent{Symbol: "TSLA"}))

	assert.Eventually(t, func() bool {
		return len(svc.symbols()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	consumer.Stop()
	assert.Equal(t, []string{"TSLA"}, svc.symbols())
}

func TestDigestUpdateConsumer_EveryInstanceInvalidates(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	groupA := common.InstanceStreamGroup("host-a")
	groupB := common.InstanceStreamGroup("host-b")
	require.NotEqual(t, groupA, groupB)
	require.NoError(t, client.EnsureGroup(ctx, common.RedisStreamNewsDigestUpdated, groupA))
	require.NoError(t, client.EnsureGroup(ctx, common.RedisStreamNewsDigestUpdated, groupB))

	svcA := &recordingDigestService{}
	svcB := &recordingDigestService{}
	consumerA := NewDigestUpdateConsumer(client.Client, svcA, groupA, common.RedisStreamConsumer, 10*time.Millisecond, 10, logger.NewNop())
	consumerB := NewDigestUpdateConsumer(client.Client, svcB, groupB, common.RedisStreamConsumer, 10*time.Millisecond, 10, logger.NewNop())

	publisher := repository.NewRedisDigestEventRepository(client.Client, 100)
	require.NoError(t, publisher.PublishDigestUpdated(ctx, ingestiondto.DigestUpdatedEvent{Symbol: "AAPL", SummaryID: 1}))

	assert.Equal(t, 1, consumerA.ProcessMessages(ctx))
	assert.Equal(t, 1, consumerB.ProcessMessages(ctx))
	assert.Equal(t, []string{"AAPL"}, svcA.symbols())
	assert.Equal(t, []string{"AAPL"}, svcB.symbols())
}

func TestInstanceStreamGroup(t *testing.T) {
	assert.Equal(t, common.RedisStreamGroup+"-api-1", common.InstanceStreamGroup("api-1"))
	assert.Equal(t, common.RedisStreamGroup, common.InstanceStreamGroup(""))
}
