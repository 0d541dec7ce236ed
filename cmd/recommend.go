package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest cost optimizations from the last 30 days of usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		recs := env.Tracker.Recommendations(ctx)
		if len(recs) == 0 {
			fmt.Fprintln(os.Stderr, "No recommendations.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tSAVINGS\tCONFIDENCE\tEFFORT\tDESCRIPTION")
		for _, r := range recs {
			fmt.Fprintf(w, "%s\t$%.4f\t%s\t%s\t%s\n",
				r.Type, r.EstimatedSavings, r.Confidence, r.Effort, r.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}
