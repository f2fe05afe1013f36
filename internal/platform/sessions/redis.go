package sessions

import (
	"context"
	"fmt"
	"log"
	"time"

	"eclass/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	fmt.Println("Successfully connected to Redis!")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		fmt.Println("Redis connection closed.")
	}
}

// Store keeps live login sessions keyed by token jti. A session token is only
// honored while its jti is present here, so logout and expiry are enforced
// server-side regardless of the token's own exp.
type Store interface {
	Create(ctx context.Context, jti, userID string, ttl time.Duration) error
	Exists(ctx context.Context, jti string) (bool, error)
	Delete(ctx context.Context, jti string) error
}

type redisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func sessionKey(jti string) string {
	return "session:" + jti
}

func (s *redisStore) Create(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKey(jti), userID, ttl).Err(); err != nil {
		return fmt.Errorf("sessions.Create: %w", err)
	}
	return nil
}

func (s *redisStore) Exists(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("sessions.Exists: %w", err)
	}
	return n > 0, nil
}

func (s *redisStore) Delete(ctx context.Context, jti string) error {
	if err := s.rdb.Del(ctx, sessionKey(jti)).Err(); err != nil {
		return fmt.Errorf("sessions.Delete: %w", err)
	}
	return nil
}
