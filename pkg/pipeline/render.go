package pipeline

import (
	"context"
	"fmt"

	apperr "github.com/matzehuels/transitroute/pkg/errors"
	"github.com/matzehuels/transitroute/pkg/render/nodelink"
	"github.com/matzehuels/transitroute/pkg/routing"
)

// GraphOptions configures [RenderGraph].
type GraphOptions struct {
	Query        QueryOptions
	Format       string   // dot, svg or png; empty means DefaultFormat
	Path         []string // routes to highlight
	HideIsolated bool
}

// RenderGraph draws the adjacency graph of res under the closures in opts.
// Routes are labelled with their long names.
func RenderGraph(ctx context.Context, res *routing.Resolver, opts GraphOptions) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = DefaultFormat
	}
	if err := apperr.ValidateFormat(format, nodelink.Formats()...); err != nil {
		return nil, err
	}

	closed, _, err := Unavailable(res.Network(), opts.Query)
	if err != nil {
		return nil, err
	}
	g := res.Graph(closed)

	labels := make(map[string]string)
	for _, r := range res.Network().Routes() {
		labels[r.ID] = r.DisplayName()
	}

	dot := nodelink.ToDOT(g, nodelink.Options{
		Labels:       labels,
		Path:         opts.Path,
		HideIsolated: opts.HideIsolated,
	})
	out, err := nodelink.Render(ctx, dot, format)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return out, nil
}
