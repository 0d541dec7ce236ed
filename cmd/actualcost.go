package main

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var actualCostCmd = &cobra.Command{
	Use:   "actual-cost <event-id> <cost-usd>",
	Short: "Reconcile an event's estimated cost with the billed amount",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		actual, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return eris.Wrapf(err, "parse cost %q", args[1])
		}
		if actual < 0 {
			return eris.New("cost must not be negative")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Tracker.UpdateActualCost(ctx, args[0], actual); err != nil {
			return err
		}

		fmt.Printf("event %s updated: actual cost $%.6f\n", args[0], actual)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(actualCostCmd)
}
