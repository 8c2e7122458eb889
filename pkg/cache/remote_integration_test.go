//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Run with: REDIS_ADDR=localhost:6379 MONGO_URI=mongodb://localhost:27017 go test -tags integration ./pkg/cache
func TestRemoteBackends_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backends := map[string]func() (Cache, error){
		"redis": func() (Cache, error) {
			addr := os.Getenv("REDIS_ADDR")
			if addr == "" {
				t.Skip("REDIS_ADDR not set")
			}
			return NewRedisCache(ctx, addr)
		},
		"mongo": func() (Cache, error) {
			uri := os.Getenv("MONGO_URI")
			if uri == "" {
				t.Skip("MONGO_URI not set")
			}
			return NewMongoCache(ctx, uri, "transitroute_test")
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			c, err := open()
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer c.Close()

			key := "integration:" + name
			if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
				t.Fatalf("Set: %v", err)
			}
			data, hit, err := c.Get(ctx, key)
			if err != nil || !hit || string(data) != "payload" {
				t.Fatalf("Get = %q, %v, %v", data, hit, err)
			}
			if err := c.Delete(ctx, key); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, hit, _ := c.Get(ctx, key); hit {
				t.Error("entry should be gone after Delete")
			}
		})
	}
}
