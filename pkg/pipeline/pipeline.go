// Package pipeline wires loading, closures, path resolution and rendering
// together so the CLI and the HTTP service behave the same way.
//
// # Stages
//
//  1. Load: read a snapshot file or fetch the network from the MBTA API,
//     with the assembled network cached as a snapshot
//  2. Close: turn a closure mode and explicit stop list into the set of
//     unavailable stops
//  3. Resolve: answer a source/destination query
//  4. Render: draw the adjacency graph, optionally with the resolved path
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	defer runner.Close()
//
//	net, err := runner.Load(ctx, pipeline.LoadOptions{})
//	res := routing.NewResolver(net, routing.NewGraphCache(0))
//
//	trip, err := pipeline.Resolve(ctx, res, "Alewife", "South Station",
//	    pipeline.QueryOptions{Mode: "covid19"})
//	fmt.Println(trip.Message)
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/transitroute/pkg/routing"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTimeout is the per-request timeout for API calls.
	DefaultTimeout = 10 * time.Second

	// DefaultFormat is the default graph output format.
	DefaultFormat = "dot"
)

// =============================================================================
// Options
// =============================================================================

// LoadOptions selects where the network comes from.
type LoadOptions struct {
	// Snapshot is a snapshot file path. When set, the API is not contacted.
	Snapshot string `json:"snapshot,omitempty"`

	BaseURL     string        `json:"base_url,omitempty"`
	APIKey      string        `json:"-"`
	RouteTypes  []int         `json:"route_types,omitempty"`
	Concurrency int           `json:"concurrency,omitempty"`
	Timeout     time.Duration `json:"timeout,omitempty"`
	CacheTTL    time.Duration `json:"cache_ttl,omitempty"`

	// Refresh bypasses every cache and refetches from the API.
	Refresh bool `json:"refresh,omitempty"`
}

// QueryOptions selects the stops that are closed for a query.
type QueryOptions struct {
	Mode   string   `json:"mode,omitempty"`   // closure mode, see network.Modes
	Closed []string `json:"closed,omitempty"` // additional closed stops
}

// =============================================================================
// Results
// =============================================================================

// Trip is the answer to one query.
type Trip struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	Mode        string   `json:"mode"`
	ClosedStops int      `json:"closed_stops"`
	Found       bool     `json:"found"`
	Routes      []string `json:"routes"`
	Strategy    string   `json:"strategy,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Message     string   `json:"message"`
}

// Path returns the trip as a routing path.
func (t Trip) Path() routing.Path {
	return routing.Path{Routes: t.Routes, Strategy: routing.Strategy(t.Strategy), Reason: t.Reason}
}

// TripMessage phrases a path as a sentence.
func TripMessage(p routing.Path) string {
	switch n := len(p.Routes); {
	case n == 0:
		return "No route is possible."
	case n == 1:
		return fmt.Sprintf("The route needed is: %s", p.Routes[0])
	case n == 2:
		return fmt.Sprintf("The two routes needed are: %s, then %s", p.Routes[0], p.Routes[1])
	default:
		return "The routes needed are: " + strings.Join(p.Routes, ", ")
	}
}
