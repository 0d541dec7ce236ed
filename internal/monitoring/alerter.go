package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/llmcost-cli/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertBudgetThreshold AlertType = "budget_threshold"
	AlertBudgetExceeded  AlertType = "budget_exceeded"
	AlertModelDominance  AlertType = "model_dominance"
)

// modelDominanceShare is the fraction of daily spend on a single model
// above which an informational alert fires.
const modelDominanceShare = 0.8

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a spend Snapshot against budget thresholds and sends
// alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *Snapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()

	// Budget blown is a hard alert; threshold crossing is a warning.
	switch {
	case snap.Budget.DailyBudget > 0 && !snap.Budget.WithinBudget:
		alerts = append(alerts, Alert{
			Type:     AlertBudgetExceeded,
			Severity: "high",
			Message: fmt.Sprintf(
				"Daily spend $%.2f exceeds budget $%.2f",
				snap.Budget.SpentToday, snap.Budget.DailyBudget,
			),
			Details: map[string]any{
				"spent_today":  snap.Budget.SpentToday,
				"daily_budget": snap.Budget.DailyBudget,
				"remaining":    snap.Budget.Remaining,
			},
			Timestamp: now,
		})
	case snap.Budget.AlertTriggered:
		alerts = append(alerts, Alert{
			Type:     AlertBudgetThreshold,
			Severity: "medium",
			Message: fmt.Sprintf(
				"Daily spend $%.2f has crossed %.0f%% of budget $%.2f",
				snap.Budget.SpentToday, snap.Budget.AlertThreshold*100, snap.Budget.DailyBudget,
			),
			Details: map[string]any{
				"spent_today":     snap.Budget.SpentToday,
				"daily_budget":    snap.Budget.DailyBudget,
				"alert_threshold": snap.Budget.AlertThreshold,
			},
			Timestamp: now,
		})
	}

	// Heavy concentration on one model is worth surfacing once there is
	// meaningful traffic behind it.
	if snap.Day.RequestCount >= 10 && len(snap.Day.TopModels) > 0 {
		top := snap.Day.TopModels[0]
		if top.Percent >= modelDominanceShare*100 {
			alerts = append(alerts, Alert{
				Type:     AlertModelDominance,
				Severity: "low",
				Message: fmt.Sprintf(
					"%s carries %.0f%% of today's spend ($%.2f of $%.2f)",
					top.Name, top.Percent, top.Cost, snap.Day.TotalCost,
				),
				Details: map[string]any{
					"model":      top.Name,
					"share_pct":  top.Percent,
					"model_cost": top.Cost,
					"total_cost": snap.Day.TotalCost,
				},
				Timestamp: now,
			})
		}
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

// sendWebhook posts a single alert to the webhook URL.
func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
