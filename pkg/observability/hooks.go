// Package observability provides hooks for metrics and tracing.
//
// Libraries call the registered hooks; the binary decides what, if anything,
// listens. The default hooks do nothing, so library code never depends on a
// metrics backend and tests need no setup.
//
// Register hooks once at startup:
//
//	observability.SetQueryHooks(metrics)
//	observability.SetHTTPHooks(metrics)
//
// and emit events from library code:
//
//	start := time.Now()
//	path, err := resolver.Resolve(src, dst, closed)
//	observability.Query().OnResolve(ctx, string(path.Strategy), path.Found(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Network Hooks
// =============================================================================

// NetworkHooks receives events from network loading.
type NetworkHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, routes, stops int, duration time.Duration, err error)

	// OnRouteSkipped records a route dropped from a load because its stops
	// could not be fetched.
	OnRouteSkipped(ctx context.Context, routeID string, err error)
}

// =============================================================================
// Query Hooks
// =============================================================================

// QueryHooks receives events from path resolution.
type QueryHooks interface {
	// OnResolve records one answered query. strategy is empty when no path
	// was found or the query failed.
	OnResolve(ctx context.Context, strategy string, found bool, duration time.Duration, err error)

	// OnGraphBuild records an adjacency graph lookup; cached reports whether
	// it was served from the graph cache.
	OnGraphBuild(ctx context.Context, routes, edges int, cached bool)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a transport failure (connection refused, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopNetworkHooks is a no-op implementation of NetworkHooks.
type NoopNetworkHooks struct{}

func (NoopNetworkHooks) OnLoadStart(context.Context, string) {}
func (NoopNetworkHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopNetworkHooks) OnRouteSkipped(context.Context, string, error) {}

// NoopQueryHooks is a no-op implementation of QueryHooks.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnResolve(context.Context, string, bool, time.Duration, error) {}
func (NoopQueryHooks) OnGraphBuild(context.Context, int, int, bool)                  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	networkHooks NetworkHooks = NoopNetworkHooks{}
	queryHooks   QueryHooks   = NoopQueryHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetNetworkHooks registers network loading hooks. Nil is ignored.
func SetNetworkHooks(h NetworkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		networkHooks = h
	}
}

// SetQueryHooks registers query hooks. Nil is ignored.
func SetQueryHooks(h QueryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queryHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Network returns the registered network hooks.
func Network() NetworkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return networkHooks
}

// Query returns the registered query hooks.
func Query() QueryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queryHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	networkHooks = NoopNetworkHooks{}
	queryHooks = NoopQueryHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
