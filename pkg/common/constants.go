package common

const (
	RedisStreamNewsDigestUpdated = "news.digest.updated"
	RedisStreamGroup             = "api-cache-group"
	RedisStreamConsumer          = "api-cache-consumer"

	RedisKeyBatchLock = "ingestion:batch:lock"

	DefaultMaxNewsItemsPerSecurity      = 20
	DefaultMaxUpcomingEventsPerSecurity = 20
)

// InstanceStreamGroup names the consumer group of one API instance. Each instance keeps its
// own cache, so each needs its own copy of every stream entry.
func InstanceStreamGroup(instance string) string {
	if instance == "" {
		return RedisStreamGroup
	}
	return RedisStreamGroup + "-" + instance
}
