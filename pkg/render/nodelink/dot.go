package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	apperr "github.com/matzehuels/transitroute/pkg/errors"
	"github.com/matzehuels/transitroute/pkg/routing"
)

// Output formats accepted by [Render]. FormatDOT is the raw source.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists every supported output format.
func Formats() []string { return []string{FormatDOT, FormatSVG, FormatPNG} }

// Options configures diagram generation.
type Options struct {
	// Labels maps route ids to display names. Routes without an entry are
	// labelled with their id.
	Labels map[string]string

	// Path highlights a resolved route sequence.
	Path []string

	// HideIsolated drops routes without any neighbor.
	HideIsolated bool
}

const (
	pathFill  = "#ffd54f"
	pathColor = "#e65100"
)

// ToDOT converts an adjacency graph to Graphviz DOT source.
func ToDOT(g *routing.Graph, opts Options) string {
	onPath := make(map[string]bool, len(opts.Path))
	pathEdge := make(map[[2]string]bool, len(opts.Path))
	for i, id := range opts.Path {
		onPath[id] = true
		if i > 0 {
			pathEdge[edgeKey(opts.Path[i-1], id)] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, id := range g.Routes() {
		if opts.HideIsolated && len(g.Neighbors(id)) == 0 && !onPath[id] {
			continue
		}
		label := id
		if l, ok := opts.Labels[id]; ok && l != "" {
			label = l
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if onPath[id] {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", pathFill), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if pathEdge[edgeKey(e[0], e[1])] {
			fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=3];\n", e[0], e[1], pathColor)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", e[0], e[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeKey(a, b string) [2]string {
	return [2]string{min(a, b), max(a, b)}
}

// Render lays out DOT source and encodes it as format (svg or png).
// FormatDOT returns the source unchanged.
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	if err := apperr.ValidateFormat(format, Formats()...); err != nil {
		return nil, err
	}
	if format == FormatDOT {
		return []byte(dot), nil
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gvFormat := graphviz.SVG
	if format == FormatPNG {
		gvFormat = graphviz.PNG
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg tag with a pixel-sized
// one so browsers scale the diagram predictably.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
