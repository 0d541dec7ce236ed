package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/llmcost-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgres_InsertEvent(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO usage_events`).
		WithArgs(
			"evt-1", now, "sess-1", "gemini-2.0-flash", "vertex",
			600, 400, 1000,
			0.00022, (*float64)(nil),
			"sms", "simple", "low", "standard",
			int64(250), true, "",
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.InsertEvent(context.Background(), model.UsageEvent{
		ID:             "evt-1",
		Timestamp:      now,
		SessionID:      "sess-1",
		ModelName:      "gemini-2.0-flash",
		ModelProvider:  "vertex",
		InputTokens:    600,
		OutputTokens:   400,
		TotalTokens:    1000,
		EstimatedCost:  0.00022,
		Channel:        model.ChannelSMS,
		Complexity:     model.ComplexitySimple,
		Urgency:        model.UrgencyLow,
		CustomerTier:   model.TierStandard,
		ResponseTimeMs: 250,
		Success:        true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateActualCost_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE usage_events SET actual_cost = \$1 WHERE id = \$2`).
		WithArgs(0.5, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateActualCost(context.Background(), "missing", 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateActualCost(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE usage_events SET actual_cost = \$1 WHERE id = \$2`).
		WithArgs(0.0003, "evt-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.UpdateActualCost(context.Background(), "evt-1", 0.0003))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListEvents(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()
	actual := 0.0005

	cols := []string{
		"id", "ts", "session_id", "model_name", "model_provider",
		"input_tokens", "output_tokens", "total_tokens",
		"estimated_cost", "actual_cost",
		"channel", "complexity", "urgency", "customer_tier",
		"response_time_ms", "success", "error_message",
	}
	rows := pgxmock.NewRows(cols).
		AddRow(
			"evt-1", now.Add(-time.Minute), "sess-1", "gemini-2.0-flash", "vertex",
			600, 400, 1000,
			0.00022, (*float64)(nil),
			"sms", "simple", "low", "standard",
			int64(250), true, nil,
		).
		AddRow(
			"evt-2", now, "sess-2", "gemini-1.5-pro", "vertex",
			1200, 800, 2000,
			0.0055, &actual,
			"email", "complex", "high", "enterprise",
			int64(900), false, "provider timeout",
		)

	mock.ExpectQuery(`SELECT .+ FROM usage_events`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(rows)

	events, err := s.ListEvents(context.Background(), now.Add(-time.Hour), now)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "evt-1", events[0].ID)
	assert.Nil(t, events[0].ActualCost)
	assert.Equal(t, model.ChannelSMS, events[0].Channel)

	require.NotNil(t, events[1].ActualCost)
	assert.InDelta(t, 0.0005, *events[1].ActualCost, 1e-12)
	assert.Equal(t, "provider timeout", events[1].ErrorMessage)
	assert.False(t, events[1].Success)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListEvents_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM usage_events`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("conn closed"))

	_, err := s.ListEvents(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list events")
	assert.NoError(t, mock.ExpectationsWereMet())
}
