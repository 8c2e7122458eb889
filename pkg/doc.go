// Package pkg holds the transitroute libraries.
//
// # Overview
//
// transitroute answers one question: which sequence of subway routes takes a
// rider from one stop to another while some stops are closed. The pkg
// directory is organized into these areas:
//
//  1. [network] - stops, routes, the route index and closure policies
//  2. [routing] - the route adjacency graph and the path resolver
//  3. [integrations] - the MBTA v3 API client and network loader
//  4. [pipeline] - orchestration (load, close, resolve, render) shared by
//     the CLI and the HTTP service
//  5. [cache], [io], [config] - response cache backends, JSON snapshots and
//     settings
//
// # Architecture
//
//	MBTA API or snapshot file
//	         ↓
//	    [integrations/mbta] (fetch routes and stops)
//	         ↓
//	    [network] (catalog + index, immutable)
//	         ↓
//	    [network] closure policy → unavailable stops
//	         ↓
//	    [routing] (adjacency graph, resolver)
//	         ↓
//	    trip message, JSON, or [render/nodelink] diagram
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/transitroute/pkg/network"
//	    "github.com/matzehuels/transitroute/pkg/routing"
//	)
//
//	n, _ := network.New(routes)
//	r := routing.NewResolver(n, routing.NewGraphCache(0))
//	path, err := r.Resolve("Alewife", "South Station", network.NewStopSet("Central"))
//	if err != nil {
//	    // unknown stop
//	}
//	if !path.Found() {
//	    // no route is possible
//	}
//
// [network]: https://pkg.go.dev/github.com/matzehuels/transitroute/pkg/network
// [routing]: https://pkg.go.dev/github.com/matzehuels/transitroute/pkg/routing
// [integrations]: https://pkg.go.dev/github.com/matzehuels/transitroute/pkg/integrations
// [integrations/mbta]: https://pkg.go.dev/github.com/matzehuels/transitroute/pkg/integrations/mbta
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/transitroute/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/transitroute/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/transitroute/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/transitroute/pkg/config
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/transitroute/pkg/render/nodelink
package pkg
