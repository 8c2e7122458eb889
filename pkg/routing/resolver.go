package routing

import (
	"fmt"
	"slices"

	apperr "github.com/matzehuels/transitroute/pkg/errors"
	"github.com/matzehuels/transitroute/pkg/network"
)

// StopRole names which query stop failed validation.
type StopRole string

const (
	RoleSource      StopRole = "source"
	RoleDestination StopRole = "destination"
)

// InvalidStopError reports a query stop that is not in the catalog.
type InvalidStopError struct {
	Role StopRole
	Stop string
}

func (e *InvalidStopError) Error() string {
	return fmt.Sprintf("%s stop %q is not a known stop", e.Role, e.Stop)
}

// Strategy records which resolution step produced a path.
type Strategy string

const (
	StrategyDirect Strategy = "direct"
	StrategyTwoHop Strategy = "two-hop"
	StrategySearch Strategy = "search"
)

// Reasons given for a path that was not found.
const (
	ReasonUnserved     = "unserved"     // no available route serves the source or destination
	ReasonDisconnected = "disconnected" // serving routes exist but are not connected
)

// Path is the answer to one query.
//
// Routes is nil when no path exists; Reason then says why.
type Path struct {
	Routes   []string `json:"routes"`
	Strategy Strategy `json:"strategy,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// Found reports whether a route sequence was resolved.
func (p Path) Found() bool { return len(p.Routes) > 0 }

// Len returns the number of routes in the path.
func (p Path) Len() int { return len(p.Routes) }

// Valid reports whether p is a correct answer for the query against ix:
// the first route serves source, the last serves dest, and every
// consecutive pair shares a stop outside unavailable. A path that was not
// found is never valid.
func (p Path) Valid(ix *network.Index, source, dest string, unavailable network.StopSet) bool {
	if !p.Found() || unavailable.Has(source) || unavailable.Has(dest) {
		return false
	}
	if !ix.StopsOf(p.Routes[0]).Has(source) || !ix.StopsOf(p.Routes[len(p.Routes)-1]).Has(dest) {
		return false
	}
	for i := 1; i < len(p.Routes); i++ {
		prev := network.Available(ix.StopsOf(p.Routes[i-1]), unavailable)
		next := network.Available(ix.StopsOf(p.Routes[i]), unavailable)
		if !prev.Intersects(next) {
			return false
		}
	}
	return true
}

// Resolver answers path queries over one network.
//
// The network is never modified; a Resolver is safe for concurrent use as
// long as its GraphCache is (the provided one is).
type Resolver struct {
	net     *network.Network
	graphs  *GraphCache
	onGraph func(g *Graph, cached bool)
}

// NewResolver creates a resolver for n. If graphs is nil, every query that
// needs the adjacency graph builds a fresh one.
func NewResolver(n *network.Network, graphs *GraphCache) *Resolver {
	return &Resolver{net: n, graphs: graphs}
}

// OnGraph registers fn to be called whenever a query obtains an adjacency
// graph. cached reports whether it came from the graph cache. Set it before
// the resolver is shared.
func (r *Resolver) OnGraph(fn func(g *Graph, cached bool)) { r.onGraph = fn }

// Network returns the network the resolver queries.
func (r *Resolver) Network() *network.Network { return r.net }

// Graph returns the adjacency graph for an unavailable-stop snapshot.
func (r *Resolver) Graph(unavailable network.StopSet) *Graph {
	var (
		g      *Graph
		cached bool
	)
	if r.graphs == nil {
		g = Build(r.net.Index(), unavailable)
	} else {
		g, cached = r.graphs.Get(r.net.Index(), unavailable)
	}
	if r.onGraph != nil {
		r.onGraph(g, cached)
	}
	return g
}

// Resolve returns the ordered routes that connect source to dest while the
// stops in unavailable are closed.
//
// An unknown source or destination fails with an error carrying
// [apperr.ErrCodeInvalidStop] that wraps an [*InvalidStopError]. When source
// equals dest, the answer is the smallest available route serving that
// stop, or no path when none does.
func (r *Resolver) Resolve(source, dest string, unavailable network.StopSet) (Path, error) {
	cat := r.net.Catalog()
	if !cat.Contains(source) {
		return Path{}, InvalidStop(RoleSource, source)
	}
	if !cat.Contains(dest) {
		return Path{}, InvalidStop(RoleDestination, dest)
	}

	ix := r.net.Index()
	srcRoutes := ix.RoutesContaining(source, unavailable)
	dstRoutes := ix.RoutesContaining(dest, unavailable)

	if id, ok := firstCommon(srcRoutes, dstRoutes); ok {
		return Path{Routes: []string{id}, Strategy: StrategyDirect}, nil
	}
	if len(srcRoutes) == 0 || len(dstRoutes) == 0 {
		return Path{Reason: ReasonUnserved}, nil
	}

	g := r.Graph(unavailable)
	for _, rs := range srcRoutes {
		for _, rd := range dstRoutes {
			if g.Adjacent(rs, rd) {
				return Path{Routes: []string{rs, rd}, Strategy: StrategyTwoHop}, nil
			}
		}
	}

	if routes := search(g, srcRoutes, dstRoutes); routes != nil {
		return Path{Routes: routes, Strategy: StrategySearch}, nil
	}
	return Path{Reason: ReasonDisconnected}, nil
}

// InvalidStop returns the error reported for an unknown query stop: an
// INVALID_STOP [apperr.Error] wrapping an [*InvalidStopError].
func InvalidStop(role StopRole, stop string) error {
	return apperr.Wrap(apperr.ErrCodeInvalidStop, &InvalidStopError{Role: role, Stop: stop},
		"%s stop name is invalid", role)
}

// firstCommon returns the smallest id present in both sorted slices.
func firstCommon(a, b []string) (string, bool) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return a[i], true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return "", false
}

// search runs a multi-source breadth-first search from sources (sorted) and
// stops at the first route in dests it discovers.
//
// Seeds are enqueued in ascending order and neighbors are expanded in
// ascending order, so each level is discovered in lexicographic order of
// the paths leading to it. The first destination discovered therefore ends
// the lexicographically smallest of the shortest paths.
func search(g *Graph, sources, dests []string) []string {
	isDest := make(map[string]bool, len(dests))
	for _, d := range dests {
		isDest[d] = true
	}

	visited := make(map[string]bool, len(g.routes))
	parent := make(map[string]string, len(g.routes))
	queue := make([]string, 0, len(g.routes))
	for _, s := range sources {
		if isDest[s] {
			return []string{s}
		}
		if !visited[s] {
			visited[s] = true
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nbr := range g.Neighbors(cur) {
			if visited[nbr] {
				continue
			}
			visited[nbr] = true
			parent[nbr] = cur
			if isDest[nbr] {
				return walkBack(parent, nbr)
			}
			queue = append(queue, nbr)
		}
	}
	return nil
}

func walkBack(parent map[string]string, end string) []string {
	path := []string{end}
	cur := end
	for {
		p, ok := parent[cur]
		if !ok {
			break
		}
		path = append(path, p)
		cur = p
	}
	slices.Reverse(path)
	return path
}
