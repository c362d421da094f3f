package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgalert "github.com/goran-ethernal/ReorgTracker/pkg/alert"
	"github.com/redis/go-redis/v9"
)

var _ pkgalert.Sink = (*RedisAlerter)(nil)

const redisPingTimeout = 5 * time.Second

// publisher is the subset of *redis.Client used for alerts.
type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Close() error
}

// RedisAlerter publishes alerts on Redis pub/sub channels named prefix+channel.
type RedisAlerter struct {
	rdb    publisher
	prefix string
	now    func() time.Time
}

// NewRedisAlerter connects to the Redis server at url and verifies it with a ping.
func NewRedisAlerter(url, channelPrefix string) (*RedisAlerter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRedisAlerter(rdb, channelPrefix), nil
}

func newRedisAlerter(rdb publisher, channelPrefix string) *RedisAlerter {
	return &RedisAlerter{rdb: rdb, prefix: channelPrefix, now: time.Now}
}

// Name identifies the redis sink in logs and metrics.
func (r *RedisAlerter) Name() string { return "redis" }

type redisMessage struct {
	Event    string            `json:"event"`
	Metadata map[string]string `json:"metadata"`
	Time     string            `json:"time"`
}

// Alert publishes the event. Having no subscribers is not an error.
func (r *RedisAlerter) Alert(ctx context.Context, channel, event string, metadata map[string]string) error {
	payload, err := json.Marshal(redisMessage{
		Event:    event,
		Metadata: metadata,
		Time:     r.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal redis alert: %w", err)
	}

	if err := r.rdb.Publish(ctx, r.prefix+channel, payload).Err(); err != nil {
		return fmt.Errorf("publish redis alert: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisAlerter) Close() error {
	return r.rdb.Close()
}
