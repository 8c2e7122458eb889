// Package render groups the visual output formats of transitroute.
//
// The [nodelink] subpackage draws the route adjacency graph with Graphviz:
// one node per route, one edge per pair of routes that share an open stop.
//
//	g := resolver.Graph(closed)
//	dot := nodelink.ToDOT(g, nodelink.Options{Path: path.Routes})
//	svg, err := nodelink.Render(ctx, dot, nodelink.FormatSVG)
//
// [nodelink]: github.com/matzehuels/transitroute/pkg/render/nodelink
package render
