package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/llmcost-cli/internal/model"
)

var (
	recSession      string
	recModel        string
	recProvider     string
	recInputTokens  int
	recOutputTokens int
	recCost         float64
	recChannel      string
	recComplexity   string
	recUrgency      string
	recTier         string
	recResponseMs   int64
	recFailed       bool
	recError        string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a model invocation in the usage ledger",
	Long:  "Persists one usage event. When --cost is omitted the cost is computed from the catalog's per-token pricing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if recModel == "" {
			return eris.New("--model is required")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		c := recCost
		if c == 0 {
			found := false
			for _, m := range env.Catalog.Models() {
				if m.Name == recModel {
					c = env.Calculator.ForUsage(m, recInputTokens, recOutputTokens)
					found = true
					break
				}
			}
			if !found {
				return eris.Errorf("model %s not in catalog; pass --cost explicitly", recModel)
			}
		}

		id := env.Tracker.Record(ctx, model.UsageEventInput{
			SessionID:      recSession,
			ModelName:      recModel,
			ModelProvider:  recProvider,
			InputTokens:    recInputTokens,
			OutputTokens:   recOutputTokens,
			EstimatedCost:  c,
			Channel:        model.Channel(recChannel),
			Complexity:     model.Complexity(recComplexity),
			Urgency:        model.Urgency(recUrgency),
			CustomerTier:   model.CustomerTier(recTier),
			ResponseTimeMs: recResponseMs,
			Success:        !recFailed,
			ErrorMessage:   recError,
		})

		fmt.Println(id)
		return nil
	},
}

func init() {
	recordCmd.Flags().StringVar(&recSession, "session", "", "conversation session id")
	recordCmd.Flags().StringVar(&recModel, "model", "", "model name (required)")
	recordCmd.Flags().StringVar(&recProvider, "provider", "vertex", "model provider")
	recordCmd.Flags().IntVar(&recInputTokens, "input-tokens", 0, "input token count")
	recordCmd.Flags().IntVar(&recOutputTokens, "output-tokens", 0, "output token count")
	recordCmd.Flags().Float64Var(&recCost, "cost", 0, "estimated cost in USD (default computed from catalog)")
	recordCmd.Flags().StringVar(&recChannel, "channel", "chat", "contact channel")
	recordCmd.Flags().StringVar(&recComplexity, "complexity", "simple", "interaction complexity")
	recordCmd.Flags().StringVar(&recUrgency, "urgency", "", "latency sensitivity")
	recordCmd.Flags().StringVar(&recTier, "tier", "", "customer tier")
	recordCmd.Flags().Int64Var(&recResponseMs, "response-ms", 0, "model response time in milliseconds")
	recordCmd.Flags().BoolVar(&recFailed, "failed", false, "mark the invocation as failed")
	recordCmd.Flags().StringVar(&recError, "error", "", "error message for failed invocations")
	rootCmd.AddCommand(recordCmd)
}
