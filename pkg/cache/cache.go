// Package cache provides a small key/value cache used for MBTA API responses
// and loaded network snapshots.
//
// Four backends implement [Cache]:
//
//   - [FileCache]: JSON files under a directory, the CLI default
//   - [RedisCache]: a shared Redis instance, for servers
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing, for tests and --no-cache
//
// Keys are produced by a [Keyer] so that callers never build key strings by
// hand. [ScopedKeyer] prefixes every key, which lets several deployments
// share one Redis or MongoDB instance.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// Default TTLs for cached data.
const (
	// TTLHTTP is how long raw API responses are kept.
	TTLHTTP = 24 * time.Hour

	// TTLNetwork is how long an assembled network snapshot is kept.
	TTLNetwork = 6 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey returns the key for a cached HTTP response.
	HTTPKey(namespace, key string) string

	// NetworkKey returns the key for a network assembled from the API at
	// baseURL restricted to routeTypes.
	NetworkKey(baseURL string, routeTypes []int) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace><key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + key
}

// NetworkKey returns "network:<digest>" over the base URL and the set of
// route types. The order of routeTypes does not matter.
func (DefaultKeyer) NetworkKey(baseURL string, routeTypes []int) string {
	types := slices.Sorted(slices.Values(routeTypes))
	types = slices.Compact(types)
	data, _ := json.Marshal([]any{strings.TrimRight(baseURL, "/"), types})
	return "network:" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
