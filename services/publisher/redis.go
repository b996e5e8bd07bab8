package publisher

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"sjsage522/adscraper/logger"
	"sjsage522/adscraper/pkg/errors"
)

// PayloadField is the stream entry field holding the base64 encoded event
const PayloadField = "b64_run"

// RedisPublisher implements Publisher using a Redis stream
type RedisPublisher struct {
	client          *redis.Client
	stream          string
	streamMaxLength int64
	log             *logger.Logger
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(addr string, db int, stream string, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:          client,
		stream:          stream,
		streamMaxLength: int64(streamMaxLength),
		log:             logger.ForPublisher(),
	}
}

// Ping checks the connection to Redis
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return errors.NewPublisher("redis is not reachable", err)
	}
	return nil
}

// PublishRun adds the event to the stream, trimming it to roughly streamMaxLength entries.
// The JSON payload is base64 encoded before publishing.
func (p *RedisPublisher) PublishRun(ctx context.Context, event RunEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.NewPublisher("failed to marshal run event", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			PayloadField: base64.StdEncoding.EncodeToString(data),
		},
	}
	if p.streamMaxLength > 0 {
		args.MaxLen = p.streamMaxLength
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return errors.NewPublisher("failed to publish run event", err)
	}

	p.log.Debug().
		Str("stream", p.stream).
		Str("entry_id", id).
		Str("session", event.SessionID).
		Msg("Run event published")
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
