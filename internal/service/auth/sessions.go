package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps login sessions and the per-email failure counter.
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID, userID uuid.UUID, ttl time.Duration) error
	SessionExists(ctx context.Context, sessionID uuid.UUID) (bool, error)
	// RevokeSession reports whether a session was actually removed.
	RevokeSession(ctx context.Context, sessionID uuid.UUID) (bool, error)

	LoginFailures(ctx context.Context, email string) (int64, error)
	RecordLoginFailure(ctx context.Context, email string, window time.Duration) (int64, error)
	ClearLoginFailures(ctx context.Context, email string) error
}

func redisKeySession(sessionID uuid.UUID) string { return "session:" + sessionID.String() }

func redisKeyLoginFailures(email string) string { return "login:failures:" + email }

type RedisSessionStore struct {
	rdb redis.UniversalClient
}

func NewRedisSessionStore(rdb redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) CreateSession(ctx context.Context, sessionID, userID uuid.UUID, ttl time.Duration) error {
	return s.rdb.Set(ctx, redisKeySession(sessionID), userID.String(), ttl).Err()
}

func (s *RedisSessionStore) SessionExists(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	n, err := s.rdb.Exists(ctx, redisKeySession(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisSessionStore) RevokeSession(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	n, err := s.rdb.Del(ctx, redisKeySession(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisSessionStore) LoginFailures(ctx context.Context, email string) (int64, error) {
	n, err := s.rdb.Get(ctx, redisKeyLoginFailures(email)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// RecordLoginFailure increments the counter; the window starts at the
// first failure and is not extended by later ones.
func (s *RedisSessionStore) RecordLoginFailure(ctx context.Context, email string, window time.Duration) (int64, error) {
	key := redisKeyLoginFailures(email)

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *RedisSessionStore) ClearLoginFailures(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, redisKeyLoginFailures(email)).Err()
}
