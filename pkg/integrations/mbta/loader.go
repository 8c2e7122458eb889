package mbta

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/transitroute/pkg/network"
	"github.com/matzehuels/transitroute/pkg/observability"
)

// DefaultConcurrency bounds the stop requests a [Loader] runs at once.
const DefaultConcurrency = 4

// LoaderOptions configures a [Loader].
type LoaderOptions struct {
	RouteTypes  []int       // empty means DefaultRouteTypes
	Concurrency int         // non-positive means DefaultConcurrency
	Refresh     bool        // bypass the response cache
	Logger      *log.Logger // nil discards log output
}

// Loader assembles a network from the API.
type Loader struct {
	client *Client
	opts   LoaderOptions
	logger *log.Logger
}

// NewLoader creates a loader that fetches through c.
func NewLoader(c *Client, opts LoaderOptions) *Loader {
	if len(opts.RouteTypes) == 0 {
		opts.RouteTypes = DefaultRouteTypes
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{client: c, opts: opts, logger: logger}
}

// Load fetches the route list and every route's stops.
//
// A failing route list fails the load. A route whose stops cannot be fetched
// is logged and left out of the network; the load only fails if the context
// is cancelled. Routes keep the order the API listed them in.
func (l *Loader) Load(ctx context.Context) (*network.Network, error) {
	source := l.client.BaseURL()
	hooks := observability.Network()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	n, err := l.load(ctx)
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, source, n.Index().Len(), n.Catalog().Len(), time.Since(start), nil)
	return n, nil
}

func (l *Loader) load(ctx context.Context) (*network.Network, error) {
	infos, err := l.client.FetchRoutes(ctx, l.opts.RouteTypes, l.opts.Refresh)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("fetched route list", "routes", len(infos))

	routes := make([]*network.Route, len(infos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Concurrency)

	for i, info := range infos {
		g.Go(func() error {
			stops, included, err := l.client.FetchStops(gctx, info.ID, l.opts.Refresh)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				l.logger.Warn("skipping route", "route", info.ID, "err", err)
				observability.Network().OnRouteSkipped(gctx, info.ID, err)
				return nil
			}
			if included != "" && included != info.ID {
				l.logger.Warn("stop response names a different route", "route", info.ID, "included", included)
			}
			routes[i] = &network.Route{
				ID:       info.ID,
				LongName: info.LongName,
				Type:     info.Type,
				Stops:    stops,
			}
			l.logger.Debug("fetched stops", "route", info.ID, "stops", len(stops))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loaded := make([]network.Route, 0, len(routes))
	for _, r := range routes {
		if r != nil {
			loaded = append(loaded, *r)
		}
	}
	if len(loaded) == 0 && len(infos) > 0 {
		return nil, ErrNoRoutes
	}
	return network.New(loaded)
}

// ErrNoRoutes is returned when every route in the list failed to load.
var ErrNoRoutes = errors.New("no route stops could be fetched")
