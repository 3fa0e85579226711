package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/qs3c/subtrack_go_server/internal/reminder"
)

const (
	firedKeyPrefix  = "reminder:fired:"
	resultKeyPrefix = "reminder:result:"
)

// RedisLedger 用 SETNX 实现完成标记，标记在 ttl 后过期
type RedisLedger struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLedger(client *redis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{client: client, ttl: ttl}
}

func (l *RedisLedger) Claim(ctx context.Context, m reminder.Marker) (bool, error) {
	ok, err := l.client.SetNX(ctx, firedKeyPrefix+m.Key(), m.Recipient, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim marker: %w", err)
	}
	return ok, nil
}

func (l *RedisLedger) Record(ctx context.Context, m reminder.Marker, sendErr error) error {
	status, msg := resultOf(sendErr)
	if msg != "" {
		status = status + ": " + msg
	}
	if err := l.client.Set(ctx, resultKeyPrefix+m.Key(), status, l.ttl).Err(); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// Result 返回记录的发送结果，未记录时为空字符串
func (l *RedisLedger) Result(ctx context.Context, m reminder.Marker) (string, error) {
	val, err := l.client.Get(ctx, resultKeyPrefix+m.Key()).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}
