package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/llmcost-cli/internal/monitoring"
)

var (
	budgetDaily  float64
	budgetNotify bool
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Check today's spend against the daily budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		daily := budgetDaily
		if daily == 0 {
			daily = cfg.Budget.DailyUSD
		}

		status := env.Tracker.CheckBudgetAlert(ctx, daily)

		fmt.Printf("Daily budget:  $%.2f\n", status.DailyBudget)
		fmt.Printf("Spent today:   $%.4f\n", status.SpentToday)
		fmt.Printf("Remaining:     $%.4f\n", status.Remaining)
		if status.AlertTriggered {
			fmt.Printf("ALERT: spend has crossed %.0f%% of the daily budget\n", status.AlertThreshold*100)
		}
		if !status.WithinBudget {
			fmt.Println("BUDGET EXCEEDED")
		}

		if budgetNotify && cfg.Monitoring.WebhookURL != "" {
			collector := monitoring.NewCollector(env.Tracker, daily)
			alerter := monitoring.NewAlerter(cfg.Monitoring)
			alerts := alerter.Evaluate(collector.Collect(ctx))
			if sent := alerter.SendAlerts(ctx, alerts); sent > 0 {
				fmt.Printf("%d alert(s) sent to webhook\n", sent)
			}
		}

		return nil
	},
}

func init() {
	budgetCmd.Flags().Float64Var(&budgetDaily, "daily", 0, "daily budget in USD (default from config)")
	budgetCmd.Flags().BoolVar(&budgetNotify, "notify", false, "send triggered alerts to the configured webhook")
	rootCmd.AddCommand(budgetCmd)
}
