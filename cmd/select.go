package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/llmcost-cli/internal/model"
)

var (
	selComplexity string
	selUrgency    string
	selChannel    string
	selTier       string
	selTokens     int
	selMessage    string
	selReasoning  bool
	selCreativity bool
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select the cheapest capable model for a request",
	Long:  "Scores the catalog against the request's complexity, context size, tier, and urgency, and prints the winning model with its cost estimate.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		tokens := selTokens
		if tokens == 0 && selMessage != "" {
			tokens = env.Estimator.Tokens(selMessage)
		}

		criteria := model.SelectionCriteria{
			Complexity:          model.Complexity(selComplexity),
			Urgency:             model.Urgency(selUrgency),
			ContextLengthTokens: tokens,
			Channel:             model.Channel(selChannel),
			CustomerTier:        model.CustomerTier(selTier),
			RequiresReasoning:   selReasoning,
			RequiresCreativity:  selCreativity,
		}

		result := env.Selector.Select(criteria, tokens)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	selectCmd.Flags().StringVar(&selComplexity, "complexity", "simple", "interaction complexity (simple|moderate|complex)")
	selectCmd.Flags().StringVar(&selUrgency, "urgency", "", "latency sensitivity (low|normal|high)")
	selectCmd.Flags().StringVar(&selChannel, "channel", "chat", "contact channel (sms|voice|email|chat)")
	selectCmd.Flags().StringVar(&selTier, "tier", "", "customer tier (standard|premium|enterprise)")
	selectCmd.Flags().IntVar(&selTokens, "context-tokens", 0, "estimated context size in tokens")
	selectCmd.Flags().StringVar(&selMessage, "message", "", "message text to estimate tokens from (used when --context-tokens is 0)")
	selectCmd.Flags().BoolVar(&selReasoning, "reasoning", false, "request requires multi-step reasoning")
	selectCmd.Flags().BoolVar(&selCreativity, "creativity", false, "request benefits from creative generation")
	rootCmd.AddCommand(selectCmd)
}
