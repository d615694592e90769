package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	v0 "aith/internal/contracts/render/v0"
	"aith/internal/worker/util"
)

// RedisQueue is a FIFO of render triggers on a Redis list: LPUSH in, BRPOP out.
type RedisQueue struct {
	rdb       *redis.Client
	queueName string
}

func NewRedisQueue(rdb *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{rdb: rdb, queueName: queueName}
}

func (q *RedisQueue) Name() string { return q.queueName }

// Push enqueues a new trigger from source and returns it.
func (q *RedisQueue) Push(ctx context.Context, source string) (*v0.Trigger, error) {
	t := NewTrigger(source)
	payload, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	if err := q.rdb.LPush(ctx, q.queueName, payload).Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// Pop waits up to timeout for a trigger. It returns nil, nil when the wait
// times out with an empty queue.
func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (*v0.Trigger, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.queueName).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(res) < 2 {
		return nil, nil
	}
	return DecodeTrigger(res[1]), nil
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.queueName).Result()
}

func NewTrigger(source string) *v0.Trigger {
	return &v0.Trigger{
		ID:          util.NewID("trg"),
		Source:      source,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// DecodeTrigger accepts a JSON trigger or any plain string, which is used as
// the trigger id (e.g. `redis-cli LPUSH aith:render manual`).
func DecodeTrigger(payload string) *v0.Trigger {
	var t v0.Trigger
	if err := json.Unmarshal([]byte(payload), &t); err == nil && t.ID != "" {
		return &t
	}
	return &v0.Trigger{ID: strings.TrimSpace(payload), Source: "raw"}
}
