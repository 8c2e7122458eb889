package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/transitroute/pkg/pipeline"
	"github.com/matzehuels/transitroute/pkg/render/nodelink"
	"github.com/matzehuels/transitroute/pkg/routing"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format       string
		output       string
		mode         string
		closed       []string
		from, to     string
		hideIsolated bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the route adjacency graph",
		Long: `Draw which routes share an open stop. Each route is a node; two routes
are joined when a rider can transfer between them.

With --from and --to the resolved trip is highlighted.`,
		Example: `  transitroute graph > routes.dot
  transitroute graph --format svg -o routes.svg --mode covid19
  transitroute graph --format png -o trip.png --from Alewife --to Wonderland`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format == nodelink.FormatPNG && output == "" {
				return fmt.Errorf("png output needs --output")
			}

			n, _, err := c.loadNetwork(ctx)
			if err != nil {
				return err
			}
			res := routing.NewResolver(n, routing.NewGraphCache(0))
			opts := pipeline.GraphOptions{
				Query:        c.queryOptions(mode, closed),
				Format:       format,
				HideIsolated: hideIsolated,
			}

			if from != "" || to != "" {
				trip, err := pipeline.Resolve(ctx, res, from, to, opts.Query)
				if err != nil {
					return tripError(err)
				}
				if !trip.Found {
					printWarning("%s", trip.Message)
				}
				opts.Path = trip.Routes
			}

			prog := newProgress(c.Logger)
			data, err := pipeline.RenderGraph(ctx, res, opts)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done(fmt.Sprintf("Rendered %s", format))
			printFile(output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", pipeline.DefaultFormat, "output format: dot, svg or png")
	f.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&mode, "mode", "", "closure mode: normal or covid19 (default from config)")
	f.StringSliceVar(&closed, "closed", nil, "additional closed stops")
	f.StringVar(&from, "from", "", "highlight the trip from this stop")
	f.StringVar(&to, "to", "", "highlight the trip to this stop")
	f.BoolVar(&hideIsolated, "hide-isolated", false, "omit routes with no transfers")

	cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return nodelink.Formats(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
