package database

import (
	"context"
	"log"
	"time"

	config "github.com/akinyi-dev/chat_backend/configs"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis wires the rate-limiter backend. The API stays up without it;
// limiting is simply skipped.
func ConnectRedis() {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		log.Println("⚠️ REDIS_ADDR not set, rate limiting disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis not reachable at %s: %v, rate limiting disabled", addr, err)
		return
	}

	Redis = client
	log.Println("✅ Redis connected successfully")
}
