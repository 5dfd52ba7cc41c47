package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rollbook:session:"

// RedisStore keeps sessions in Redis so logins survive process restarts.
type RedisStore struct {
	Client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &RedisStore{Client: client, ttl: ttl}
}

// Healthy verifies redis connectivity.
func (r *RedisStore) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Save stores the session as JSON under its ID, resetting the TTL.
func (r *RedisStore) Save(ctx context.Context, s Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, keyPrefix+s.ID, payload, r.ttl).Err()
}

// Get loads a session by ID, mapping a missing key to ErrNoSession.
func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := r.Client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Delete removes the session key.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.Client.Del(ctx, keyPrefix+id).Err()
}
