package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	eventsListKey = "dispatch_events"
	// сколько последних событий хранить в списке
	eventsListCap = 10000
)

// RedisPublisher - реализация Publisher, использующая список Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish добавляет событие в голову списка и обрезает хвост
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch event: %w", err)
	}

	pipe := p.redisClient.TxPipeline()
	pipe.LPush(ctx, eventsListKey, payload)
	pipe.LTrim(ctx, eventsListKey, 0, eventsListCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish dispatch event to Redis: %w", err)
	}
	return nil
}

// Recent возвращает последние события, начиная с самого нового
func (p *RedisPublisher) Recent(ctx context.Context, limit int64) ([]Event, error) {
	raw, err := p.redisClient.LRange(ctx, eventsListKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read dispatch events from Redis: %w", err)
	}

	out := make([]Event, 0, len(raw))
	for _, item := range raw {
		var e Event
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dispatch event: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}
