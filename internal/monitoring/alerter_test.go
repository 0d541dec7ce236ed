package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/llmcost-cli/internal/config"
	"github.com/sells-group/llmcost-cli/internal/model"
)

func TestAlerter_Evaluate_NoAlerts(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})

	snap := &Snapshot{
		Budget: model.BudgetStatus{
			DailyBudget:    100,
			SpentToday:     40,
			Remaining:      60,
			WithinBudget:   true,
			AlertTriggered: false,
			AlertThreshold: 0.8,
		},
		Day: model.DayMetrics{
			CostSummary: model.CostSummary{RequestCount: 4, TotalCost: 40},
			TopModels:   []model.ModelShare{{Name: "gemini-2.0-flash", Cost: 25, Percent: 62.5}},
		},
	}

	alerts := a.Evaluate(snap)
	assert.Empty(t, alerts)
}

func TestAlerter_Evaluate_BudgetThreshold(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})

	snap := &Snapshot{
		Budget: model.BudgetStatus{
			DailyBudget:    100,
			SpentToday:     85,
			Remaining:      15,
			WithinBudget:   true,
			AlertTriggered: true,
			AlertThreshold: 0.8,
		},
	}

	alerts := a.Evaluate(snap)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertBudgetThreshold, alerts[0].Type)
	assert.Equal(t, "medium", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "80%")
	assert.Contains(t, alerts[0].Message, "$85.00")
}

func TestAlerter_Evaluate_BudgetExceeded(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})

	snap := &Snapshot{
		Budget: model.BudgetStatus{
			DailyBudget:    100,
			SpentToday:     130,
			Remaining:      -30,
			WithinBudget:   false,
			AlertTriggered: true,
			AlertThreshold: 0.8,
		},
	}

	alerts := a.Evaluate(snap)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertBudgetExceeded, alerts[0].Type)
	assert.Equal(t, "high", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "$130.00")
}

func TestAlerter_Evaluate_ModelDominance(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})

	snap := &Snapshot{
		Budget: model.BudgetStatus{DailyBudget: 100, SpentToday: 50, Remaining: 50, WithinBudget: true, AlertThreshold: 0.8},
		Day: model.DayMetrics{
			CostSummary: model.CostSummary{RequestCount: 20, TotalCost: 50},
			TopModels:   []model.ModelShare{{Name: "gemini-2.5-pro", Cost: 45, Percent: 90}},
		},
	}

	alerts := a.Evaluate(snap)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertModelDominance, alerts[0].Type)
	assert.Equal(t, "low", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "gemini-2.5-pro")
}

func TestAlerter_Evaluate_DominanceNeedsTraffic(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})

	// Only 3 requests today: too little signal for a dominance alert.
	snap := &Snapshot{
		Budget: model.BudgetStatus{DailyBudget: 100, SpentToday: 10, Remaining: 90, WithinBudget: true, AlertThreshold: 0.8},
		Day: model.DayMetrics{
			CostSummary: model.CostSummary{RequestCount: 3, TotalCost: 10},
			TopModels:   []model.ModelShare{{Name: "gemini-2.5-pro", Cost: 10, Percent: 100}},
		},
	}

	assert.Empty(t, a.Evaluate(snap))
}

func TestAlerter_SendAlerts(t *testing.T) {
	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var alert Alert
		require.NoError(t, json.NewDecoder(r.Body).Decode(&alert))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := NewAlerter(config.MonitoringConfig{WebhookURL: srv.URL})
	alerts := []Alert{
		{Type: AlertBudgetThreshold, Severity: "medium", Message: "spend crossed threshold"},
		{Type: AlertBudgetExceeded, Severity: "high", Message: "budget blown"},
	}

	sent := a.SendAlerts(context.Background(), alerts)
	assert.Equal(t, 2, sent)
	assert.Equal(t, int32(2), received.Load())
}

func TestAlerter_SendAlerts_WebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewAlerter(config.MonitoringConfig{WebhookURL: srv.URL})
	sent := a.SendAlerts(context.Background(), []Alert{{Type: AlertBudgetExceeded}})
	assert.Zero(t, sent)
}

func TestAlerter_SendAlerts_NoWebhook(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})
	sent := a.SendAlerts(context.Background(), []Alert{{Type: AlertBudgetExceeded}})
	assert.Zero(t, sent)
}
