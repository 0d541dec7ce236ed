package model

import "time"

// CostSummary aggregates all usage events whose timestamp falls in
// [Start, End]. Per-event cost prefers reconciled actual cost over the
// estimate. EstimatedSavings is a heuristic display figure, not a
// billing-grade counterfactual: it assumes every request had been served at
// the most-expensive model's own worst observed per-token rate.
type CostSummary struct {
	Start            time.Time          `json:"start"`
	End              time.Time          `json:"end"`
	TotalCost        float64            `json:"total_cost"`
	RequestCount     int                `json:"request_count"`
	AverageCost      float64            `json:"average_cost"`
	ByModel          map[string]float64 `json:"by_model"`
	ByChannel        map[string]float64 `json:"by_channel"`
	ByComplexity     map[string]float64 `json:"by_complexity"`
	EstimatedSavings float64            `json:"estimated_savings"`
}

// ModelShare is one entry of a models-by-cost breakdown.
type ModelShare struct {
	Name    string  `json:"name"`
	Cost    float64 `json:"cost"`
	Percent float64 `json:"percent"`
}

// DayMetrics is the current-day summary plus the top models by spend.
type DayMetrics struct {
	CostSummary
	TopModels []ModelShare `json:"top_models"`
}

// TrendPoint is one calendar day of a cost trend, oldest first.
type TrendPoint struct {
	Date         string  `json:"date"`
	TotalCost    float64 `json:"total_cost"`
	RequestCount int     `json:"request_count"`
	AverageCost  float64 `json:"average_cost"`
}

// BudgetStatus compares today's spend against a daily budget. Remaining may
// be negative once the budget is blown.
type BudgetStatus struct {
	DailyBudget    float64 `json:"daily_budget"`
	SpentToday     float64 `json:"spent_today"`
	Remaining      float64 `json:"remaining"`
	WithinBudget   bool    `json:"within_budget"`
	AlertTriggered bool    `json:"alert_triggered"`
	AlertThreshold float64 `json:"alert_threshold"`
}

// Confidence grades how sure a recommendation heuristic is.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Effort grades how much work acting on a recommendation takes.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Recommendation is one heuristic cost-optimization suggestion derived from
// the trailing-30-day usage window. Savings figures are estimates only.
type Recommendation struct {
	Type             string     `json:"type"`
	Description      string     `json:"description"`
	EstimatedSavings float64    `json:"estimated_savings"`
	Confidence       Confidence `json:"confidence"`
	Effort           Effort     `json:"effort"`
}
