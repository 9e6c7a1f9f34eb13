package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestDefaultCacheConfig(t *testing.T) {
	config := DefaultCacheConfig()

	if config.Addr != "localhost:6379" {
		t.Errorf("Expected Addr to be localhost:6379, got %s", config.Addr)
	}

	if config.PoolSize != 10 {
		t.Errorf("Expected PoolSize to be 10, got %d", config.PoolSize)
	}

	if config.MinIdleConns != 5 {
		t.Errorf("Expected MinIdleConns to be 5, got %d", config.MinIdleConns)
	}

	if config.MaxRetries != 3 {
		t.Errorf("Expected MaxRetries to be 3, got %d", config.MaxRetries)
	}

	if config.DialTimeout != 5*time.Second {
		t.Errorf("Expected DialTimeout to be 5s, got %v", config.DialTimeout)
	}
}

func setupTestRedis(t *testing.T) *RedisCache {
	mr := miniredis.RunT(t)

	config := DefaultCacheConfig()
	config.Addr = mr.Addr()

	cache := NewRedisCache(config)
	t.Cleanup(func() { cache.Close() })

	return cache
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache := setupTestRedis(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	err := cache.Set("test-key", payload{Name: "Work", Count: 3}, time.Minute)
	if err != nil {
		t.Fatalf("Expected Set to succeed, got %v", err)
	}

	var got payload
	if err := cache.Get("test-key", &got); err != nil {
		t.Fatalf("Expected Get to succeed, got %v", err)
	}

	if got.Name != "Work" || got.Count != 3 {
		t.Errorf("Expected {Work 3}, got %+v", got)
	}
}

func TestRedisCache_GetMissingKey(t *testing.T) {
	cache := setupTestRedis(t)

	var got string
	err := cache.Get("missing", &got)
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_Delete(t *testing.T) {
	cache := setupTestRedis(t)

	cache.Set("key1", "value1", time.Minute)
	if err := cache.Delete("key1"); err != nil {
		t.Fatalf("Expected Delete to succeed, got %v", err)
	}

	var got string
	if err := cache.Get("key1", &got); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestRedisCache_DeletePattern(t *testing.T) {
	cache := setupTestRedis(t)

	cache.Set("user_tasks:abc:1", "a", time.Minute)
	cache.Set("user_tasks:abc:2", "b", time.Minute)
	cache.Set("user_tasks:def:1", "c", time.Minute)

	if err := cache.DeletePattern("user_tasks:abc:*"); err != nil {
		t.Fatalf("Expected DeletePattern to succeed, got %v", err)
	}

	var got string
	if err := cache.Get("user_tasks:abc:1", &got); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss for deleted key, got %v", err)
	}

	if err := cache.Get("user_tasks:def:1", &got); err != nil {
		t.Errorf("Expected unrelated key to survive, got %v", err)
	}
}

func TestRedisCache_Expiration(t *testing.T) {
	mr := miniredis.RunT(t)

	config := DefaultCacheConfig()
	config.Addr = mr.Addr()
	cache := NewRedisCache(config)
	defer cache.Close()

	cache.Set("expiring", "value", time.Second)
	mr.FastForward(2 * time.Second)

	var got string
	if err := cache.Get("expiring", &got); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after expiry, got %v", err)
	}
}
