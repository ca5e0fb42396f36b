package testutil

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTestRedisAddr = "localhost:6379"
	// defaultTestRedisDB keeps test keys away from DB 0.
	defaultTestRedisDB = 9
)

// SetupTestRedis returns a client on a flushed test database, closed when the
// test ends. REDIS_ADDR and TEST_REDIS_DB override the defaults. The test is
// skipped when Redis cannot be reached unless TEST_REQUIRE_REDIS is set.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = defaultTestRedisAddr
	}
	client := redis.NewClient(&redis.Options{
		Addr:       addr,
		DB:         testRedisDB(t),
		MaxRetries: -1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("flush test redis db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testRedisDB(t TestingTB) int {
	v := os.Getenv("TEST_REDIS_DB")
	if v == "" {
		return defaultTestRedisDB
	}
	db, err := strconv.Atoi(v)
	if err != nil || db < 0 {
		t.Fatalf("invalid TEST_REDIS_DB=%q", v)
	}
	return db
}
