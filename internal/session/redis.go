package session

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
	jsonutil "github.com/kart-io/sentinel-x/pkg/utils/json"
)

const (
	keyPrefix    = "chat:session:"
	activityZSet = "chat:session:activity"
)

func sessionStateKey(userID, conversationID string) string {
	return keyPrefix + userID + ":" + conversationID
}

func activityMember(userID, conversationID string) string {
	return userID + ":" + conversationID
}

// consumeScript atomically decrements route_lock_remaining embedded in the
// stored JSON blob's lock counter, but since the session state is a single
// JSON value rather than discrete Redis fields, the counter is kept as a
// separate integer key so it can be decremented with Lua without a
// read-modify-write race (the "atomic decrement with compare-and-swap
// when backed by KV" requirement, §4.E).
var consumeScript = goredis.NewScript(`
local remaining = tonumber(redis.call("GET", KEYS[1]))
if not remaining or remaining <= 0 then
  return -1
end
redis.call("DECR", KEYS[1])
return remaining
`)

func lockCounterKey(userID, conversationID string) string {
	return keyPrefix + userID + ":" + conversationID + ":lock"
}

// RedisManager is the KV-backed Manager implementation, for multi-replica
// deployments where session state must be shared across orchestrator
// instances.
type RedisManager struct {
	redis *goredis.Client
	ttl   time.Duration
}

// NewRedisManager builds a RedisManager. ttl bounds how long an idle
// session's keys survive even if Evict never runs (defense in depth; Evict
// itself drives the explicit T_session sweep).
func NewRedisManager(redisClient *goredis.Client, ttl time.Duration) *RedisManager {
	return &RedisManager{redis: redisClient, ttl: ttl}
}

func (m *RedisManager) load(ctx context.Context, userID, conversationID string) (*chatmodel.SessionState, error) {
	raw, err := m.redis.Get(ctx, sessionStateKey(userID, conversationID)).Result()
	if err == goredis.Nil {
		return &chatmodel.SessionState{
			UserID:         userID,
			ConversationID: conversationID,
			Route:          chatmodel.RouteNormal,
			LastActivity:   time.Now(),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}
	var s chatmodel.SessionState
	if err := jsonutil.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}
	return &s, nil
}

func (m *RedisManager) save(ctx context.Context, s *chatmodel.SessionState) error {
	data, err := jsonutil.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	pipe := m.redis.TxPipeline()
	pipe.Set(ctx, sessionStateKey(s.UserID, s.ConversationID), data, m.ttl)
	pipe.ZAdd(ctx, activityZSet, goredis.Z{
		Score:  float64(s.LastActivity.Unix()),
		Member: activityMember(s.UserID, s.ConversationID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

// Get implements Manager.
func (m *RedisManager) Get(ctx context.Context, userID, conversationID string) (*chatmodel.SessionState, error) {
	return m.load(ctx, userID, conversationID)
}

// ApplyClassification implements Manager.
func (m *RedisManager) ApplyClassification(ctx context.Context, userID, conversationID string, label chatmodel.ClassificationLabel, lockTurns int) (*chatmodel.SessionState, error) {
	s, err := m.load(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	route := RouteForLabel(label)
	s.Route = route
	s.LastActivity = time.Now()

	counterKey := lockCounterKey(userID, conversationID)
	if locksRoute(route) && s.AgeVerified {
		s.RouteLockRemaining = lockTurns
		if err := m.redis.Set(ctx, counterKey, lockTurns, m.ttl).Err(); err != nil {
			return nil, fmt.Errorf("set route lock counter: %w", err)
		}
	} else {
		s.RouteLockRemaining = 0
		if err := m.redis.Del(ctx, counterKey).Err(); err != nil {
			return nil, fmt.Errorf("clear route lock counter: %w", err)
		}
	}

	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ConsumeRouteLock implements Manager, decrementing the counter atomically
// via a Lua script so concurrent turns on the same conversation (which
// should not happen given strict per-conversation serialization upstream,
// but might during a failover) can never double-decrement.
func (m *RedisManager) ConsumeRouteLock(ctx context.Context, userID, conversationID string) (*chatmodel.SessionState, bool, error) {
	s, err := m.load(ctx, userID, conversationID)
	if err != nil {
		return nil, false, err
	}

	before := *s
	remainingBefore, err := consumeScript.Run(ctx, m.redis, []string{lockCounterKey(userID, conversationID)}).Int()
	if err != nil {
		return nil, false, fmt.Errorf("consume route lock: %w", err)
	}
	if remainingBefore < 0 {
		return nil, false, nil
	}

	before.RouteLockRemaining = remainingBefore

	s.RouteLockRemaining = remainingBefore - 1
	s.LastActivity = time.Now()
	if err := m.save(ctx, s); err != nil {
		return nil, false, err
	}
	return &before, true, nil
}

// SetAgeVerified implements Manager.
func (m *RedisManager) SetAgeVerified(ctx context.Context, userID, conversationID string, verified bool) error {
	s, err := m.load(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	s.AgeVerified = verified
	s.LastActivity = time.Now()
	return m.save(ctx, s)
}

// Evict implements Manager.
func (m *RedisManager) Evict(ctx context.Context, idleFor time.Duration) (int, error) {
	cutoff := float64(time.Now().Add(-idleFor).Unix())
	stale, err := m.redis.ZRangeByScore(ctx, activityZSet, &goredis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%f", cutoff),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("scan idle sessions: %w", err)
	}

	for _, member := range stale {
		pipe := m.redis.TxPipeline()
		pipe.Del(ctx, keyPrefix+member)
		pipe.Del(ctx, keyPrefix+member+":lock")
		pipe.ZRem(ctx, activityZSet, member)
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, fmt.Errorf("evict idle session %s: %w", member, err)
		}
	}
	return len(stale), nil
}
