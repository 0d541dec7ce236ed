package monitoring

import (
	"context"
	"time"

	"github.com/sells-group/llmcost-cli/internal/model"
)

// BudgetReader abstracts the ledger methods the collector needs.
type BudgetReader interface {
	CheckBudgetAlert(ctx context.Context, dailyBudget float64) model.BudgetStatus
	CurrentDayMetrics(ctx context.Context) model.DayMetrics
}

// Snapshot holds a point-in-time view of spend health.
type Snapshot struct {
	Budget      model.BudgetStatus `json:"budget"`
	Day         model.DayMetrics   `json:"day"`
	CollectedAt time.Time          `json:"collected_at"`
}

// Collector gathers spend snapshots from the usage ledger.
type Collector struct {
	ledger      BudgetReader
	dailyBudget float64
}

// NewCollector creates a new spend collector against the given ledger.
func NewCollector(ledger BudgetReader, dailyBudget float64) *Collector {
	return &Collector{ledger: ledger, dailyBudget: dailyBudget}
}

// Collect gathers the current budget status and today's metrics.
func (c *Collector) Collect(ctx context.Context) *Snapshot {
	return &Snapshot{
		Budget:      c.ledger.CheckBudgetAlert(ctx, c.dailyBudget),
		Day:         c.ledger.CurrentDayMetrics(ctx),
		CollectedAt: time.Now().UTC(),
	}
}
