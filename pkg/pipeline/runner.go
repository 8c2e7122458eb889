package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/transitroute/pkg/cache"
	"github.com/matzehuels/transitroute/pkg/integrations/mbta"
	netio "github.com/matzehuels/transitroute/pkg/io"
	"github.com/matzehuels/transitroute/pkg/network"
	"github.com/matzehuels/transitroute/pkg/observability"
)

// Runner loads networks with caching.
// Both CLI and API use it so the caching logic lives in one place.
//
// A Runner holds no per-request state; one Runner can serve concurrent
// loads with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Load returns the network described by opts.
func (r *Runner) Load(ctx context.Context, opts LoadOptions) (*network.Network, error) {
	n, _, err := r.LoadWithCacheInfo(ctx, opts)
	return n, err
}

// LoadWithCacheInfo returns the network and whether it came from the
// network cache. Snapshot files are never cached.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts LoadOptions) (*network.Network, bool, error) {
	if opts.Snapshot != "" {
		return r.loadSnapshot(opts.Snapshot)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = mbta.DefaultBaseURL
	}
	routeTypes := opts.RouteTypes
	if len(routeTypes) == 0 {
		routeTypes = mbta.DefaultRouteTypes
	}
	key := r.Keyer.NetworkKey(baseURL, routeTypes)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if n, err := decodeSnapshot(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "network")
				r.Logger.Debug("network cache hit", "routes", n.Index().Len())
				return n, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "network")
	}

	start := time.Now()
	n, err := r.fetch(ctx, baseURL, routeTypes, opts)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Info("loaded network",
		"routes", n.Index().Len(),
		"stops", n.Catalog().Len(),
		"duration", time.Since(start).Round(time.Millisecond))

	var buf bytes.Buffer
	if err := netio.WriteJSON(netio.NewSnapshot(n, baseURL), &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLNetwork); err != nil {
			r.Logger.Warn("could not cache network", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "network", buf.Len())
		}
	}
	return n, false, nil
}

func (r *Runner) fetch(ctx context.Context, baseURL string, routeTypes []int, opts LoadOptions) (*network.Network, error) {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = cache.TTLHTTP
	}
	client := mbta.NewClient(r.Cache, baseURL, opts.APIKey, ttl)
	client.SetKeyer(r.Keyer)
	client.SetTimeout(opts.Timeout)

	loader := mbta.NewLoader(client, mbta.LoaderOptions{
		RouteTypes:  routeTypes,
		Concurrency: opts.Concurrency,
		Refresh:     opts.Refresh,
		Logger:      r.Logger,
	})
	n, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}
	return n, nil
}

func (r *Runner) loadSnapshot(path string) (*network.Network, bool, error) {
	n, snap, err := netio.ImportJSON(path)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("loaded snapshot",
		"path", path,
		"source", snap.Source,
		"fetched_at", snap.FetchedAt,
		"routes", n.Index().Len())
	return n, false, nil
}

func decodeSnapshot(data []byte) (*network.Network, error) {
	snap, err := netio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return snap.Network()
}

// FetchRoutes lists routes straight from the API, without stops. It is what
// the routes command prints, so it skips loading every stop list.
func (r *Runner) FetchRoutes(ctx context.Context, opts LoadOptions) ([]mbta.RouteInfo, error) {
	if opts.Snapshot != "" {
		n, _, err := r.loadSnapshot(opts.Snapshot)
		if err != nil {
			return nil, err
		}
		var out []mbta.RouteInfo
		for _, rt := range n.Routes() {
			out = append(out, mbta.RouteInfo{ID: rt.ID, LongName: rt.LongName, Type: rt.Type})
		}
		return out, nil
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = cache.TTLHTTP
	}
	client := mbta.NewClient(r.Cache, opts.BaseURL, opts.APIKey, ttl)
	client.SetKeyer(r.Keyer)
	client.SetTimeout(opts.Timeout)
	return client.FetchRoutes(ctx, opts.RouteTypes, opts.Refresh)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
