package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	netio "github.com/matzehuels/transitroute/pkg/io"
)

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the network to a snapshot file",
		Long: `Download every route and its stops and save them as a JSON snapshot.

Pass the snapshot to any command with --network to work offline.`,
		Example: `  transitroute fetch -o mbta.json
  transitroute trip Alewife Wonderland --network mbta.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(c.Logger)
			n, cached, err := c.loadNetwork(cmd.Context())
			if err != nil {
				return err
			}

			source := c.cfg.API.BaseURL
			if c.snapshot != "" {
				source = c.snapshot
			}
			if err := netio.ExportJSON(n, source, output); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}

			prog.done("Saved network")
			printNetworkStats(n.Index().Len(), n.Catalog().Len(), cached)
			printFile(output)
			printNextStep("Query offline", fmt.Sprintf("%s trip <from> <to> --network %s", appName, output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "network.json", "snapshot file to write")

	return cmd
}
