package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/transitroute/internal/server"
	"github.com/matzehuels/transitroute/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		mode   string
		closed []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Load the network once and answer queries over HTTP.

Endpoints: /health, /api/routes, /api/stops, /api/path, /api/graph and
/metrics (Prometheus).`,
		Example: `  transitroute serve --addr :8080
  curl 'localhost:8080/api/path?from=Alewife&to=Wonderland&mode=covid19'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			// Metrics must be listening before the network loads.
			metrics := server.NewMetrics(reg)
			observability.SetNetworkHooks(metrics)
			observability.SetCacheHooks(metrics)
			observability.SetHTTPHooks(metrics)
			observability.SetQueryHooks(metrics)
			defer observability.Reset()

			n, _, err := c.loadNetwork(ctx)
			if err != nil {
				return err
			}

			srv := server.New(n, server.Options{
				Addr:           addr,
				AllowedOrigins: c.cfg.Server.AllowedOrigins,
				Defaults:       c.queryOptions(mode, closed),
				Logger:         c.Logger,
				Metrics:        metrics,
				Registry:       reg,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&mode, "mode", "", "default closure mode for queries")
	cmd.Flags().StringSliceVar(&closed, "closed", nil, "default closed stops for queries")

	return cmd
}
