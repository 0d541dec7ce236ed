package ledger

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/llmcost-cli/internal/model"
)

// maxTrendFanout bounds how many per-day summary queries run at once.
const maxTrendFanout = 4

// CostTrends returns one point per calendar day for the trailing `days`
// days, oldest first. Each day is an independent summary query; they fan
// out concurrently since the store serves read-only scans.
func (t *Tracker) CostTrends(ctx context.Context, days int) []model.TrendPoint {
	if days <= 0 {
		return nil
	}

	now := t.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	points := make([]model.TrendPoint, days)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxTrendFanout)

	for i := 0; i < days; i++ {
		g.Go(func() error {
			dayStart := today.AddDate(0, 0, -(days - 1 - i))
			dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
			s := t.CostSummary(gctx, dayStart, dayEnd)
			points[i] = model.TrendPoint{
				Date:         dayStart.Format("2006-01-02"),
				TotalCost:    s.TotalCost,
				RequestCount: s.RequestCount,
				AverageCost:  s.AverageCost,
			}
			return nil
		})
	}
	// CostSummary swallows store errors, so the group cannot fail.
	_ = g.Wait()

	return points
}

// CheckBudgetAlert compares today's spend to a daily budget. The alert
// fires once the configured fraction of the budget is consumed; remaining
// goes negative when the budget is blown.
func (t *Tracker) CheckBudgetAlert(ctx context.Context, dailyBudget float64) model.BudgetStatus {
	day := t.CurrentDayMetrics(ctx)

	status := model.BudgetStatus{
		DailyBudget:    dailyBudget,
		SpentToday:     day.TotalCost,
		Remaining:      dailyBudget - day.TotalCost,
		AlertThreshold: t.alertThreshold,
	}
	status.WithinBudget = day.TotalCost <= dailyBudget
	status.AlertTriggered = dailyBudget > 0 && day.TotalCost >= dailyBudget*t.alertThreshold
	return status
}

// Recommendations inspects the trailing 30 days and emits heuristic
// cost-optimization suggestions. Savings, confidence, and effort are
// estimates, not guarantees; an empty or unreadable store yields none.
func (t *Tracker) Recommendations(ctx context.Context) []model.Recommendation {
	now := t.now().UTC()
	start := now.AddDate(0, 0, -recommendationWindowDays)

	events, err := t.store.ListEvents(ctx, start, now)
	if err != nil || len(events) == 0 {
		return nil
	}
	summary := summarize(start, now, events)

	var recs []model.Recommendation

	// Dominant model: more than half the spend on one backend suggests
	// routing a slice of its traffic to a cheaper tier.
	if name, c, share := dominantEntry(summary.ByModel, summary.TotalCost); share > 0.5 {
		recs = append(recs, model.Recommendation{
			Type: "model_concentration",
			Description: fmt.Sprintf(
				"%s accounts for %.0f%% of spend over the last %d days; consider routing a fraction of its traffic to a cheaper model",
				name, share*100, recommendationWindowDays,
			),
			EstimatedSavings: c * 0.15,
			Confidence:       model.ConfidenceMedium,
			Effort:           model.EffortLow,
		})
	}

	// Channel concentration: any channel over 20% of total spend is worth
	// a look.
	for channel, c := range summary.ByChannel {
		if summary.TotalCost <= 0 {
			break
		}
		if share := c / summary.TotalCost; share > 0.2 {
			recs = append(recs, model.Recommendation{
				Type: "channel_concentration",
				Description: fmt.Sprintf(
					"channel %s drives %.0f%% of spend; investigate whether its interactions can use cheaper routing",
					channel, share*100,
				),
				EstimatedSavings: c * 0.1,
				Confidence:       model.ConfidenceLow,
				Effort:           model.EffortMedium,
			})
		}
	}

	// Failed invocations still cost tokens.
	failed := 0
	var failedCost float64
	for _, e := range events {
		if !e.Success {
			failed++
			failedCost += e.BilledCost()
		}
	}
	if failRate := float64(failed) / float64(len(events)); failRate > 0.05 {
		recs = append(recs, model.Recommendation{
			Type: "failure_rate",
			Description: fmt.Sprintf(
				"%.0f%% of invocations failed over the last %d days; failed calls still burn spend",
				failRate*100, recommendationWindowDays,
			),
			EstimatedSavings: failedCost,
			Confidence:       model.ConfidenceHigh,
			Effort:           model.EffortMedium,
		})
	}

	return recs
}

// dominantEntry returns the largest entry of a cost breakdown and its
// share of total.
func dominantEntry(byKey map[string]float64, total float64) (string, float64, float64) {
	var name string
	var cost float64
	for k, c := range byKey {
		if c > cost || (c == cost && (name == "" || k < name)) {
			name, cost = k, c
		}
	}
	if total <= 0 {
		return name, cost, 0
	}
	return name, cost, cost / total
}
