// Package broker adapts the message broker collaborator. Events are appended
// to a Redis stream named after the topic; delivery beyond that point is the
// consumers' concern (at-most-once from this service's perspective).
package broker

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes opaque payloads to topic-named Redis streams.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

// Send appends the payload to the topic's stream.
func (s *RedisSink) Send(ctx context.Context, topic string, payload []byte) error {
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{"payload": payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("broker send: stream %s: %w", topic, err)
	}
	return nil
}
