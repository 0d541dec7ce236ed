package model

import "time"

// UsageEvent is one immutable record of a model invocation attempt. The
// classification signals are denormalized onto the row so historical analysis
// does not depend on the catalog's current state. ActualCost is the only
// field ever patched after the write, when true billing data arrives.
type UsageEvent struct {
	ID             string       `json:"id"`
	Timestamp      time.Time    `json:"timestamp"`
	SessionID      string       `json:"session_id"`
	ModelName      string       `json:"model_name"`
	ModelProvider  string       `json:"model_provider"`
	InputTokens    int          `json:"input_tokens"`
	OutputTokens   int          `json:"output_tokens"`
	TotalTokens    int          `json:"total_tokens"`
	EstimatedCost  float64      `json:"estimated_cost"`
	ActualCost     *float64     `json:"actual_cost,omitempty"`
	Channel        Channel      `json:"channel"`
	Complexity     Complexity   `json:"complexity"`
	Urgency        Urgency      `json:"urgency"`
	CustomerTier   CustomerTier `json:"customer_tier"`
	ResponseTimeMs int64        `json:"response_time_ms"`
	Success        bool         `json:"success"`
	ErrorMessage   string       `json:"error_message,omitempty"`
}

// BilledCost returns the actual cost when billing data has been reconciled,
// the original estimate otherwise.
func (e UsageEvent) BilledCost() float64 {
	if e.ActualCost != nil {
		return *e.ActualCost
	}
	return e.EstimatedCost
}

// UsageEventInput is what the caller supplies after an invocation attempt.
// The tracker assigns the id and timestamp.
type UsageEventInput struct {
	SessionID      string       `json:"session_id"`
	ModelName      string       `json:"model_name"`
	ModelProvider  string       `json:"model_provider"`
	InputTokens    int          `json:"input_tokens"`
	OutputTokens   int          `json:"output_tokens"`
	EstimatedCost  float64      `json:"estimated_cost"`
	Channel        Channel      `json:"channel"`
	Complexity     Complexity   `json:"complexity"`
	Urgency        Urgency      `json:"urgency"`
	CustomerTier   CustomerTier `json:"customer_tier"`
	ResponseTimeMs int64        `json:"response_time_ms"`
	Success        bool         `json:"success"`
	ErrorMessage   string       `json:"error_message,omitempty"`
}
