package session

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrNoSession means the token is unknown or expired. Callers must treat any
// other error the same way for authorization purposes (fail closed); the
// distinction only matters for logging.
var ErrNoSession = errors.New("no session")

// Store issues and resolves opaque session tokens. Tokens are the only thing
// the browser holds; identity ids never leave the server.
type Store interface {
	// Create issues a fresh token for the identity with the full TTL.
	Create(ctx context.Context, identityID string) (string, error)

	// Resolve returns the identity behind a token and slides its expiry
	// forward by the full TTL. Session refresh is independent of any
	// authorization decision made by the caller.
	Resolve(ctx context.Context, token string) (string, error)

	// Destroy ends one session. Destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error

	// RevokeIdentity ends every session belonging to an identity.
	RevokeIdentity(ctx context.Context, identityID string) error
}

const keyPrefix = "session:"

// RedisStore keeps one key per token with the identity id as value. The key
// TTL is the session lifetime.
type RedisStore struct {
	c   *redis.Client
	ttl time.Duration
}

func NewRedisStore(c *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{c: c, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Create(ctx context.Context, identityID string) (string, error) {
	token := uuid.NewString()
	if err := s.c.Set(ctx, keyPrefix+token, identityID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	identityID, err := s.c.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNoSession
		}
		return "", err
	}
	// Sliding expiry: every successful resolution restarts the clock.
	_ = s.c.Expire(ctx, keyPrefix+token, s.ttl).Err()
	return identityID, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.c.Del(ctx, keyPrefix+token).Err()
}

func (s *RedisStore) RevokeIdentity(ctx context.Context, identityID string) error {
	// Low-traffic internal tool: a SCAN over the session keyspace is fine.
	var cursor uint64
	for {
		keys, next, err := s.c.Scan(ctx, cursor, keyPrefix+"*", 200).Result()
		if err != nil {
			return err
		}
		for _, key := range keys {
			owner, err := s.c.Get(ctx, key).Result()
			if err != nil {
				continue
			}
			if owner == identityID {
				_ = s.c.Del(ctx, key).Err()
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
