// Package nodelink renders route adjacency graphs as node-link diagrams.
//
// [ToDOT] produces Graphviz DOT source for a [routing.Graph]: an undirected
// graph with a rounded box per route and an edge between every two routes
// that share an open stop. Nodes and edges are emitted in ascending order so
// the output is stable. Routes on [Options.Path] are filled and the edges
// between consecutive path routes are drawn bold, which makes a resolved
// trip easy to follow.
//
// [Render] lays the DOT source out in-process with
// [github.com/goccy/go-graphviz] (a WebAssembly build of Graphviz, so no
// system install is needed) and returns SVG or PNG bytes.
//
// [routing.Graph]: github.com/matzehuels/transitroute/pkg/routing.Graph
package nodelink
