package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/transitroute/pkg/integrations/mbta"
	"github.com/matzehuels/transitroute/pkg/network"
)

// routesCommand creates the routes command.
func (c *CLI) routesCommand() *cobra.Command {
	var (
		asJSON bool
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the subway routes",
		Long: `List the routes of the configured route types (light and heavy rail by
default) by long name, in the order the API returns them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			routes, err := runner.FetchRoutes(ctx, c.loadOptions())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeRoutesJSON(out, routes)
			case plain:
				for _, r := range routes {
					fmt.Fprintln(out, displayName(r))
				}
				return nil
			}
			fmt.Fprintln(out, routesTable(routes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print routes as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "print one long name per line")

	return cmd
}

func displayName(r mbta.RouteInfo) string {
	if r.LongName != "" {
		return r.LongName
	}
	return r.ID
}

func writeRoutesJSON(w io.Writer, routes []mbta.RouteInfo) error {
	type route struct {
		ID       string `json:"id"`
		LongName string `json:"long_name"`
		Type     int    `json:"type"`
	}
	out := make([]route, 0, len(routes))
	for _, r := range routes {
		out = append(out, route{ID: r.ID, LongName: displayName(r), Type: r.Type})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var routeTypeNames = map[int]string{
	network.RouteTypeLightRail: "light rail",
	network.RouteTypeSubway:    "subway",
	network.RouteTypeRail:      "commuter rail",
	network.RouteTypeBus:       "bus",
	network.RouteTypeFerry:     "ferry",
}

func routeTypeName(t int) string {
	if name, ok := routeTypeNames[t]; ok {
		return name
	}
	return strconv.Itoa(t)
}

func routesTable(routes []mbta.RouteInfo) string {
	rows := make([][]string, 0, len(routes))
	for _, r := range routes {
		rows = append(rows, []string{r.ID, displayName(r), routeTypeName(r.Type)})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	dimStyle := lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "NAME", "TYPE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return dimStyle
			default:
				return cellStyle
			}
		}).
		Render()
}
