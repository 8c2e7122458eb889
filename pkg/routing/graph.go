package routing

import (
	"slices"

	"github.com/matzehuels/transitroute/pkg/network"
)

// Graph is the route adjacency graph for one unavailable-stop snapshot.
//
// The zero value is an empty graph. A built Graph is immutable and safe for
// concurrent use.
type Graph struct {
	routes []string            // sorted
	adj    map[string][]string // route -> sorted neighbors
	key    string
}

// Build derives the adjacency graph of ix with the stops in unavailable
// removed. Two distinct routes are adjacent iff their available stop sets
// intersect.
//
// Adjacency is computed through a reverse stop → routes index, so the cost
// grows with the number of (stop, route) memberships rather than with the
// square of the route count.
func Build(ix *network.Index, unavailable network.StopSet) *Graph {
	ids := ix.RouteIDs()
	g := &Graph{
		routes: ids,
		adj:    make(map[string][]string, len(ids)),
		key:    unavailable.Key(),
	}

	servedBy := make(map[string][]string)
	for _, id := range ids {
		for stop := range network.Available(ix.StopsOf(id), unavailable) {
			servedBy[stop] = append(servedBy[stop], id)
		}
	}

	seen := make(map[[2]string]bool)
	for _, routes := range servedBy {
		for i, a := range routes {
			for _, b := range routes[i+1:] {
				pair := [2]string{min(a, b), max(a, b)}
				if seen[pair] {
					continue
				}
				seen[pair] = true
				g.adj[a] = append(g.adj[a], b)
				g.adj[b] = append(g.adj[b], a)
			}
		}
	}
	for id := range g.adj {
		slices.Sort(g.adj[id])
	}
	return g
}

// Routes returns the route ids in ascending order.
func (g *Graph) Routes() []string { return slices.Clone(g.routes) }

// Neighbors returns, in ascending order, the routes reachable from routeID
// through a shared available stop. Callers must not modify the result.
func (g *Graph) Neighbors(routeID string) []string { return g.adj[routeID] }

// Adjacent reports whether a and b share an available stop.
func (g *Graph) Adjacent(a, b string) bool {
	_, ok := slices.BinarySearch(g.adj[a], b)
	return ok
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, nbrs := range g.adj {
		n += len(nbrs)
	}
	return n / 2
}

// Edges returns every undirected edge once, as (smaller, larger) pairs in
// ascending order.
func (g *Graph) Edges() [][2]string {
	var out [][2]string
	for _, a := range g.routes {
		for _, b := range g.adj[a] {
			if a < b {
				out = append(out, [2]string{a, b})
			}
		}
	}
	return out
}

// Key returns the canonical key of the unavailable-stop snapshot the graph
// was built for.
func (g *Graph) Key() string { return g.key }
