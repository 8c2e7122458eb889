package pipeline

import (
	"context"
	"time"

	apperr "github.com/matzehuels/transitroute/pkg/errors"
	"github.com/matzehuels/transitroute/pkg/network"
	"github.com/matzehuels/transitroute/pkg/observability"
	"github.com/matzehuels/transitroute/pkg/routing"
)

// Unavailable computes the closed stops of n for opts. An unknown mode
// fails with INVALID_MODE. Unknown closed stop names are ignored.
// The returned name is the closure mode's canonical name.
func Unavailable(n *network.Network, opts QueryOptions) (network.StopSet, string, error) {
	mode, err := network.ParseMode(opts.Mode)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.ErrCodeInvalidMode, err, "unknown closure mode %q", opts.Mode)
	}
	policy := mode
	if len(opts.Closed) > 0 {
		policy = network.Combine(mode, network.ListPolicy{Stops: opts.Closed})
	}
	return policy.Closed(n.Catalog()), mode.Name(), nil
}

// Resolve answers a query against res.
//
// Stop names are checked with [apperr.ValidateStopName] first, then looked
// up by the resolver; both failures carry INVALID_STOP and name the role.
// A query without a path is a Trip with Found false, not an error.
func Resolve(ctx context.Context, res *routing.Resolver, from, to string, opts QueryOptions) (Trip, error) {
	start := time.Now()
	trip, err := resolve(res, from, to, opts)
	observability.Query().OnResolve(ctx, trip.Strategy, trip.Found, time.Since(start), err)
	return trip, err
}

func resolve(res *routing.Resolver, from, to string, opts QueryOptions) (Trip, error) {
	if apperr.ValidateStopName(from) != nil {
		return Trip{}, routing.InvalidStop(routing.RoleSource, from)
	}
	if apperr.ValidateStopName(to) != nil {
		return Trip{}, routing.InvalidStop(routing.RoleDestination, to)
	}

	closed, mode, err := Unavailable(res.Network(), opts)
	if err != nil {
		return Trip{}, err
	}

	path, err := res.Resolve(from, to, closed)
	if err != nil {
		return Trip{}, err
	}

	routes := path.Routes
	if routes == nil {
		routes = []string{}
	}
	return Trip{
		From:        from,
		To:          to,
		Mode:        mode,
		ClosedStops: closed.Len(),
		Found:       path.Found(),
		Routes:      routes,
		Strategy:    string(path.Strategy),
		Reason:      path.Reason,
		Message:     TripMessage(path),
	}, nil
}

// ObserveGraphs reports the resolver's graph lookups to the query hooks.
func ObserveGraphs(ctx context.Context, res *routing.Resolver) {
	res.OnGraph(func(g *routing.Graph, cached bool) {
		observability.Query().OnGraphBuild(ctx, len(g.Routes()), g.EdgeCount(), cached)
	})
}
