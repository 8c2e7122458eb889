// Package routing resolves which sequence of routes connects two stops.
//
// Routes are nodes of an undirected [Graph]; two routes are adjacent when
// they share at least one available stop (a transfer point). Because
// adjacency depends on which stops are unavailable, a Graph is built for
// one unavailable-stop snapshot and never changes afterwards. [GraphCache]
// shares graphs between queries that use the same snapshot.
//
// [Resolver.Resolve] applies the following steps in order:
//
//  1. Direct: a single route serves both stops.
//  2. Infeasible: no available route serves one of the stops.
//  3. Two-hop: a source route is adjacent to a destination route.
//  4. Search: breadth-first search over the route graph.
//
// Every choice among equally valid candidates is made in ascending route-id
// order, so results are deterministic. The search carries a visited set and
// terminates on cyclic graphs; it returns a path with the fewest routes and,
// among those, the lexicographically smallest sequence.
//
// Unknown stop names fail with an error carrying
// [errors.ErrCodeInvalidStop]. A valid query without a connection returns a
// [Path] whose Found method reports false; that is an answer, not an error.
//
// # Example
//
//	net, _ := network.New(routes)
//	r := routing.NewResolver(net, routing.NewGraphCache(0))
//	p, err := r.Resolve("Alewife", "Downtown Crossing", nil)
//	// p.Routes == []string{"Red", "Mattapan", "Orange"}
//
// [errors.ErrCodeInvalidStop]: github.com/matzehuels/transitroute/pkg/errors
package routing
