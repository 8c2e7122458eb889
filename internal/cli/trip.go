package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/transitroute/pkg/errors"
	"github.com/matzehuels/transitroute/pkg/network"
	"github.com/matzehuels/transitroute/pkg/pipeline"
	"github.com/matzehuels/transitroute/pkg/routing"
)

// tripCommand creates the trip command.
func (c *CLI) tripCommand() *cobra.Command {
	var (
		mode   string
		closed []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "trip [from] [to]",
		Short: "Find the routes connecting two stops",
		Long: `Find the sequence of routes that takes you from one stop to another.

Consecutive routes share at least one open stop where you can transfer.
With --mode covid19, every stop with a word starting with C, O, V, I or D
is closed. --closed closes further stops.

When a stop is omitted on an interactive terminal, a picker opens.`,
		Example: `  transitroute trip Alewife "South Station"
  transitroute trip Davis Kendall/MIT --mode covid19
  transitroute trip Harvard Park --closed "Park Street" --json`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n, _, err := c.loadNetwork(ctx)
			if err != nil {
				return err
			}

			from, to, err := tripEndpoints(n, args)
			if err != nil {
				return err
			}

			res := routing.NewResolver(n, nil)
			trip, err := pipeline.Resolve(ctx, res, from, to, c.queryOptions(mode, closed))
			if err != nil {
				return tripError(err)
			}
			c.Logger.Debug("resolved", "strategy", trip.Strategy, "reason", trip.Reason,
				"mode", trip.Mode, "closed", trip.ClosedStops)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(trip)
			}
			fmt.Fprintln(out, trip.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "closure mode: normal or covid19 (default from config)")
	cmd.Flags().StringSliceVar(&closed, "closed", nil, "additional closed stops (repeatable, comma-separated)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return network.Modes(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// tripEndpoints returns the source and destination from args, asking with
// the stop picker for any that is missing.
func tripEndpoints(n *network.Network, args []string) (string, string, error) {
	if len(args) == 2 {
		return args[0], args[1], nil
	}
	if !stdinIsTerminal() {
		return "", "", fmt.Errorf("trip needs a source and a destination stop")
	}

	stops := n.Catalog().Names()
	var from string
	if len(args) == 1 {
		from = args[0]
	} else {
		picked, err := pickStop("Source stop", stops)
		if err != nil {
			return "", "", err
		}
		from = picked
	}
	to, err := pickStop("Destination stop", stops)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

// tripError phrases stop validation failures for the terminal.
func tripError(err error) error {
	var ise *routing.InvalidStopError
	if errors.As(err, &ise) {
		return errors.New(invalidStopMessage(ise.Role))
	}
	if apperr.Is(err, apperr.ErrCodeInvalidMode) {
		return errors.New(apperr.UserMessage(err) + " (available: " + strings.Join(network.Modes(), ", ") + ")")
	}
	return err
}

func invalidStopMessage(role routing.StopRole) string {
	return "The " + string(role) + " stop name is invalid."
}
