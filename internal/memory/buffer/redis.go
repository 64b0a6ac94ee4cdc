package buffer

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
	jsonutil "github.com/kart-io/sentinel-x/pkg/utils/json"
)

const (
	keyPrefix    = "chat:buf:"
	activityZSet = "chat:buf:activity"
)

// RedisBuffer is the KV-backed Buffer implementation, for multi-replica
// deployments.
type RedisBuffer struct {
	redis *goredis.Client
	size  int // M
	ttl   time.Duration
}

// NewRedisBuffer builds a RedisBuffer capped at size messages per
// conversation (M, default 10), with entries evicted after ttl
// of inactivity as a backstop to the explicit Cleanup sweep.
func NewRedisBuffer(redisClient *goredis.Client, size int, ttl time.Duration) *RedisBuffer {
	return &RedisBuffer{redis: redisClient, size: size, ttl: ttl}
}

func messagesKey(conversationID string) string { return keyPrefix + conversationID + ":messages" }
func summaryKey(conversationID string) string   { return keyPrefix + conversationID + ":summary" }

func (b *RedisBuffer) Append(ctx context.Context, conversationID string, msg chatmodel.Message) error {
	data, err := jsonutil.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal buffered message: %w", err)
	}

	key := messagesKey(conversationID)
	pipe := b.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, int64(-b.size), -1)
	pipe.Expire(ctx, key, b.ttl)
	pipe.ZAdd(ctx, activityZSet, goredis.Z{Score: float64(time.Now().Unix()), Member: conversationID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append to short-term buffer: %w", err)
	}
	return nil
}

func (b *RedisBuffer) Get(ctx context.Context, conversationID string) ([]chatmodel.Message, error) {
	raw, err := b.redis.LRange(ctx, messagesKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read short-term buffer: %w", err)
	}
	messages := make([]chatmodel.Message, 0, len(raw))
	for _, item := range raw {
		var m chatmodel.Message
		if err := jsonutil.Unmarshal([]byte(item), &m); err != nil {
			logger.Warnw("skipping corrupt buffered message", "conversation_id", conversationID, "error", err.Error())
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (b *RedisBuffer) SetSummary(ctx context.Context, conversationID, summary string) error {
	return b.redis.Set(ctx, summaryKey(conversationID), summary, b.ttl).Err()
}

func (b *RedisBuffer) GetSummary(ctx context.Context, conversationID string) (string, error) {
	summary, err := b.redis.Get(ctx, summaryKey(conversationID)).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read buffer summary: %w", err)
	}
	return summary, nil
}

func (b *RedisBuffer) Reset(ctx context.Context, conversationID string) error {
	pipe := b.redis.TxPipeline()
	pipe.Del(ctx, messagesKey(conversationID))
	pipe.ZRem(ctx, activityZSet, conversationID)
	_, err := pipe.Exec(ctx)
	return err
}

func (b *RedisBuffer) Cleanup(ctx context.Context, idleFor time.Duration) (int, error) {
	cutoff := float64(time.Now().Add(-idleFor).Unix())
	stale, err := b.redis.ZRangeByScore(ctx, activityZSet, &goredis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%f", cutoff),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("scan idle conversations: %w", err)
	}

	for _, conversationID := range stale {
		pipe := b.redis.TxPipeline()
		pipe.Del(ctx, messagesKey(conversationID))
		pipe.Del(ctx, summaryKey(conversationID))
		pipe.ZRem(ctx, activityZSet, conversationID)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Warnw("failed to clean up idle conversation", "conversation_id", conversationID, "error", err.Error())
		}
	}
	return len(stale), nil
}
