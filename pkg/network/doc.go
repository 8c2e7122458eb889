// Package network models a transit network as routes and the stops they serve.
//
// A [Network] is built once from loaded route data and is read-only
// afterwards. It exposes two views used by path resolution:
//
//   - [Catalog]: the universe of known stop names, used to validate input.
//   - [Index]: route id → set of stop names, with the reverse lookup
//     [Index.RoutesContaining] that honours a set of unavailable stops.
//
// Availability is modelled with [StopSet] and the pure function [Available],
// which removes unavailable stops from a route's stop set. Closure policies
// ([Policy]) derive such unavailable sets from the catalog, for example the
// "covid19" policy that closes every stop with a word starting with one of
// the letters C, O, V, I or D.
//
// [ComputeStats] produces the aggregate figures reported by the CLI:
// unique stop count, routes with the most and fewest stops, and the
// wheelchair-accessible stops.
//
// # Concurrency
//
// A Network, its Catalog and its Index are safe for concurrent reads. No
// method mutates them after [New] returns.
package network
