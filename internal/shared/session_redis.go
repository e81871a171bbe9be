package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so several instances can share them.
// The key expiry is set once at creation and never refreshed.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore constructs a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

// Get loads the session for token.
func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	payload, err := s.client.Get(ctx, s.redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	sess.Token = token
	return &sess, nil
}

// Create stores a new session for principal.
func (s *RedisStore) Create(ctx context.Context, principal Principal) (*Session, error) {
	now := s.now()
	sess := Session{
		Token:     newToken(),
		Principal: principal,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, s.redisKey(sess.Token), data, s.ttl).Err(); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Invalidate deletes the session for token.
func (s *RedisStore) Invalidate(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.redisKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (s *RedisStore) redisKey(token string) string {
	return "session:" + token
}

var _ SessionStore = (*RedisStore)(nil)
