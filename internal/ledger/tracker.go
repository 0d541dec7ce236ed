// Package ledger accounts for model usage. Writes are best-effort by
// policy: cost telemetry must never break the customer-facing interaction
// it measures, so Record retries briefly, then logs and drops. Reads
// degrade to zero-valued summaries when the store is empty or unavailable,
// so dashboards show "no data" instead of an error page.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/llmcost-cli/internal/model"
	"github.com/sells-group/llmcost-cli/internal/resilience"
	"github.com/sells-group/llmcost-cli/internal/store"
)

// DefaultAlertThreshold is the budget fraction at which the daily alert
// fires.
const DefaultAlertThreshold = 0.8

// recommendationWindowDays is the trailing window Recommendations inspects.
const recommendationWindowDays = 30

// Tracker records usage events and serves cost reporting over them.
type Tracker struct {
	store          store.Store
	retry          resilience.RetryConfig
	alertThreshold float64
	now            func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithAlertThreshold overrides the budget-alert threshold (a fraction in
// (0,1]).
func WithAlertThreshold(threshold float64) Option {
	return func(t *Tracker) {
		if threshold > 0 && threshold <= 1 {
			t.alertThreshold = threshold
		}
	}
}

// WithRetry overrides the write-path retry configuration.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(t *Tracker) {
		t.retry = cfg
	}
}

// New creates a Tracker over the given store.
func New(st store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:          st,
		retry:          resilience.DefaultRetryConfig(),
		alertThreshold: DefaultAlertThreshold,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record assigns an id and timestamp to the input and persists it. It
// deliberately returns nothing: by policy a tracking failure is logged and
// swallowed, never surfaced to the caller. Returns the assigned event id
// for callers that later reconcile actual cost.
func (t *Tracker) Record(ctx context.Context, in model.UsageEventInput) string {
	e := model.UsageEvent{
		ID:             uuid.New().String(),
		Timestamp:      t.now().UTC(),
		SessionID:      in.SessionID,
		ModelName:      in.ModelName,
		ModelProvider:  in.ModelProvider,
		InputTokens:    in.InputTokens,
		OutputTokens:   in.OutputTokens,
		TotalTokens:    in.InputTokens + in.OutputTokens,
		EstimatedCost:  in.EstimatedCost,
		Channel:        in.Channel,
		Complexity:     in.Complexity,
		Urgency:        in.Urgency,
		CustomerTier:   in.CustomerTier,
		ResponseTimeMs: in.ResponseTimeMs,
		Success:        in.Success,
		ErrorMessage:   in.ErrorMessage,
	}
	if e.CustomerTier == "" {
		e.CustomerTier = model.TierStandard
	}

	err := resilience.Do(ctx, t.retry, "ledger.record", func(ctx context.Context) error {
		return t.store.InsertEvent(ctx, e)
	})
	if err != nil {
		zap.L().Error("ledger: dropping usage event after retries",
			zap.String("event_id", e.ID),
			zap.String("model", e.ModelName),
			zap.Error(err),
		)
		return e.ID
	}

	zap.L().Debug("ledger: recorded usage event",
		zap.String("event_id", e.ID),
		zap.String("model", e.ModelName),
		zap.Float64("estimated_cost", e.EstimatedCost),
	)
	return e.ID
}

// UpdateActualCost patches an event with reconciled billing data. Unlike
// Record this returns the error: the billing-sync job runs off the hot
// path and wants to know about failures.
func (t *Tracker) UpdateActualCost(ctx context.Context, eventID string, actualCost float64) error {
	return t.store.UpdateActualCost(ctx, eventID, actualCost)
}

// CostSummary aggregates the events in [start, end]. A store failure
// degrades to the zero-valued summary for the window.
func (t *Tracker) CostSummary(ctx context.Context, start, end time.Time) model.CostSummary {
	events, err := t.store.ListEvents(ctx, start, end)
	if err != nil {
		zap.L().Error("ledger: cost summary query failed, returning empty summary",
			zap.Time("start", start),
			zap.Time("end", end),
			zap.Error(err),
		)
		events = nil
	}
	return summarize(start, end, events)
}

// summarize folds events into a CostSummary. Defined over the raw slice so
// the derivative reports can share it.
func summarize(start, end time.Time, events []model.UsageEvent) model.CostSummary {
	s := model.CostSummary{
		Start:        start,
		End:          end,
		ByModel:      make(map[string]float64),
		ByChannel:    make(map[string]float64),
		ByComplexity: make(map[string]float64),
	}
	if len(events) == 0 {
		return s
	}

	totalTokens := 0
	for _, e := range events {
		c := e.BilledCost()
		s.TotalCost += c
		s.RequestCount++
		s.ByModel[e.ModelName] += c
		s.ByChannel[string(e.Channel)] += c
		s.ByComplexity[string(e.Complexity)] += c
		totalTokens += e.TotalTokens
	}
	s.AverageCost = s.TotalCost / float64(s.RequestCount)
	s.EstimatedSavings = estimatedSavings(events, s, totalTokens)
	return s
}

// estimatedSavings approximates what the window would have cost had every
// request run at the most-expensive model's own worst observed per-token
// rate. Heuristic only; traffic mix makes it over- or under-state the true
// counterfactual.
func estimatedSavings(events []model.UsageEvent, s model.CostSummary, totalTokens int) float64 {
	var topModel string
	var topCost float64
	for name, c := range s.ByModel {
		if c > topCost || (c == topCost && topModel == "") {
			topModel, topCost = name, c
		}
	}
	if topModel == "" || totalTokens == 0 {
		return 0
	}

	var maxRate float64
	for _, e := range events {
		if e.ModelName != topModel || e.TotalTokens == 0 {
			continue
		}
		if rate := e.BilledCost() / float64(e.TotalTokens); rate > maxRate {
			maxRate = rate
		}
	}

	hypothetical := maxRate * float64(totalTokens)
	savings := hypothetical - s.TotalCost
	if savings < 0 {
		return 0
	}
	return savings
}

// CurrentDayMetrics summarizes midnight-to-now plus a top-5 models-by-cost
// breakdown with percentage shares.
func (t *Tracker) CurrentDayMetrics(ctx context.Context) model.DayMetrics {
	now := t.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	summary := t.CostSummary(ctx, midnight, now)
	return model.DayMetrics{
		CostSummary: summary,
		TopModels:   topModels(summary, 5),
	}
}

func topModels(s model.CostSummary, n int) []model.ModelShare {
	shares := make([]model.ModelShare, 0, len(s.ByModel))
	for name, c := range s.ByModel {
		share := model.ModelShare{Name: name, Cost: c}
		if s.TotalCost > 0 {
			share.Percent = c / s.TotalCost * 100
		}
		shares = append(shares, share)
	}

	// Insertion sort by cost descending, name ascending on ties so the
	// output is stable across runs.
	for i := 1; i < len(shares); i++ {
		for j := i; j > 0; j-- {
			a, b := shares[j-1], shares[j]
			if b.Cost > a.Cost || (b.Cost == a.Cost && b.Name < a.Name) {
				shares[j-1], shares[j] = b, a
			} else {
				break
			}
		}
	}

	if len(shares) > n {
		shares = shares[:n]
	}
	return shares
}
