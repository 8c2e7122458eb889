package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/transitroute/pkg/network"
)

// stopsCommand creates the stops command.
func (c *CLI) stopsCommand() *cobra.Command {
	var (
		asJSON bool
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "stops",
		Short: "Show stop statistics",
		Long: `Show the number of unique stops, the routes with the most and fewest
stops, and the wheelchair-accessible stops.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _, err := c.loadNetwork(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				for _, name := range n.Catalog().Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			st := network.ComputeStats(n)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			fmt.Fprintln(out, formatStats(n, st))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	cmd.Flags().BoolVar(&list, "list", false, "print every stop name instead")

	return cmd
}

// formatStats renders stats as labelled lines.
func formatStats(n *network.Network, st network.Stats) string {
	name := func(id string) string {
		if r, ok := n.Route(id); ok {
			return r.DisplayName()
		}
		return id
	}
	size := func(id string) int { return n.Index().StopsOf(id).Len() }

	var b strings.Builder
	line := func(key, value string) {
		b.WriteString(keyStyle.Render(key) + " " + StyleValue.Render(value) + "\n")
	}

	line("Stops", fmt.Sprintf("%d unique", st.UniqueStops))
	if st.MostStops != "" {
		line("Most", fmt.Sprintf("%s (%d stops)", name(st.MostStops), size(st.MostStops)))
		line("Fewest", fmt.Sprintf("%s (%d stops)", name(st.FewestStops), size(st.FewestStops)))
	}
	line("Accessible", fmt.Sprintf("%d stops", len(st.Accessible)))
	for _, s := range st.Accessible {
		b.WriteString("  " + StyleDim.Render(s) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
