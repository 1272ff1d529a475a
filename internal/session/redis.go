package session

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// redisStore keeps session slots in Redis so they survive process restarts
// and can be shared by replicas.
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore constructs a Redis backed session store and verifies the
// connection before returning it.
func NewRedisStore(addr, password string, db int) (Store, error) {
	opts := &redis.Options{Addr: addr, Password: password, DB: db}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &redisStore{
		client: client,
		prefix: "snapgrid:session:",
	}, nil
}

func (r *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redisStore) Set(ctx context.Context, key, userID string) error {
	// Slots never expire; logout is the only thing that clears them.
	return r.client.Set(ctx, r.prefix+key, userID, 0).Err()
}

func (r *redisStore) Clear(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
