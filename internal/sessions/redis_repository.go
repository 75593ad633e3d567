package sessions

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "ristorante:session:"

// RedisRepository stores each session as a hash under <prefix><digest>
// whose key expires with the session.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository uses DefaultRedisPrefix when prefix is empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	key := r.prefix + s.TokenHash
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key,
			"sub", s.Sub,
			"createdAt", s.CreatedAt.Unix(),
			"expiresAt", s.ExpiresAt.Unix(),
		)
		p.ExpireAt(ctx, key, s.ExpiresAt)
		return nil
	})
	return err
}

func (r *RedisRepository) Get(ctx context.Context, tokenHash string) (*Session, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+tokenHash).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	created, err := strconv.ParseInt(fields["createdAt"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("session %s: createdAt: %w", tokenHash, err)
	}
	expires, err := strconv.ParseInt(fields["expiresAt"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("session %s: expiresAt: %w", tokenHash, err)
	}
	return &Session{
		TokenHash: tokenHash,
		Sub:       fields["sub"],
		CreatedAt: time.Unix(created, 0).UTC(),
		ExpiresAt: time.Unix(expires, 0).UTC(),
	}, nil
}

func (r *RedisRepository) Delete(ctx context.Context, tokenHash string) error {
	return r.client.Del(ctx, r.prefix+tokenHash).Err()
}
