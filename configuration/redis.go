package configuration

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client holds the shared redis connection. Nil until InitRedis runs,
// so callers that can live without the cache must check before using it.
var Client *redis.Client

const (
	redisMaxRetries = 5
	redisRetryDelay = 5 * time.Second
)

// InitRedis connects to REDIS_ADDR, retrying a few times before giving up.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	var err error
	for attempt := 1; attempt <= redisMaxRetries; attempt++ {
		Client = redis.NewClient(&redis.Options{
			Network: "tcp",
			Addr:    addr,
		})

		if _, err = Client.Ping(context.Background()).Result(); err == nil {
			return
		}

		log.Printf("Failed to connect to Redis (Attempt %d/%d): %s", attempt, redisMaxRetries, err.Error())
		time.Sleep(redisRetryDelay)
	}
	panic("Failed to connect to Redis after multiple attempts: " + err.Error())
}

func SetRedis(key string, value any, expiration time.Duration) error {
	return Client.Set(context.Background(), key, value, expiration).Err()
}

func GetRedis(key string) (string, error) {
	return Client.Get(context.Background(), key).Result()
}

func DeleteRedis(key string) error {
	return Client.Del(context.Background(), key).Err()
}

// PublishRedis pushes a message to a redis channel for realtime listeners.
func PublishRedis(channel string, payload any) error {
	return Client.Publish(context.Background(), channel, payload).Err()
}
