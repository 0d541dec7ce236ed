package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/llmcost-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It is the default
// backend for single-host deployments and tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode so concurrent event inserts do not block reads.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS usage_events (
	id               TEXT PRIMARY KEY,
	ts               DATETIME NOT NULL,
	session_id       TEXT NOT NULL,
	model_name       TEXT NOT NULL,
	model_provider   TEXT NOT NULL,
	input_tokens     INTEGER NOT NULL,
	output_tokens    INTEGER NOT NULL,
	total_tokens     INTEGER NOT NULL,
	estimated_cost   REAL NOT NULL,
	actual_cost      REAL,
	channel          TEXT NOT NULL,
	complexity       TEXT NOT NULL,
	urgency          TEXT NOT NULL,
	customer_tier    TEXT NOT NULL,
	response_time_ms INTEGER NOT NULL DEFAULT 0,
	success          INTEGER NOT NULL,
	error_message    TEXT
);

CREATE INDEX IF NOT EXISTS idx_usage_events_ts ON usage_events(ts);
CREATE INDEX IF NOT EXISTS idx_usage_events_model ON usage_events(model_name);
CREATE INDEX IF NOT EXISTS idx_usage_events_channel ON usage_events(channel);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertEvent(ctx context.Context, e model.UsageEvent) error {
	var actual sql.NullFloat64
	if e.ActualCost != nil {
		actual = sql.NullFloat64{Float64: *e.ActualCost, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_events
		 (id, ts, session_id, model_name, model_provider,
		  input_tokens, output_tokens, total_tokens,
		  estimated_cost, actual_cost,
		  channel, complexity, urgency, customer_tier,
		  response_time_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.UTC(), e.SessionID, e.ModelName, e.ModelProvider,
		e.InputTokens, e.OutputTokens, e.TotalTokens,
		e.EstimatedCost, actual,
		string(e.Channel), string(e.Complexity), string(e.Urgency), string(e.CustomerTier),
		e.ResponseTimeMs, e.Success, e.ErrorMessage,
	)
	return eris.Wrap(err, "sqlite: insert event")
}

func (s *SQLiteStore) UpdateActualCost(ctx context.Context, eventID string, actualCost float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE usage_events SET actual_cost = ? WHERE id = ?`,
		actualCost, eventID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update actual cost %s", eventID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("usage event not found: %s", eventID)
	}
	return nil
}

func (s *SQLiteStore) ListEvents(ctx context.Context, start, end time.Time) ([]model.UsageEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, session_id, model_name, model_provider,
		        input_tokens, output_tokens, total_tokens,
		        estimated_cost, actual_cost,
		        channel, complexity, urgency, customer_tier,
		        response_time_ms, success, error_message
		 FROM usage_events
		 WHERE ts >= ? AND ts <= ?
		 ORDER BY ts ASC`,
		start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list events")
	}
	defer rows.Close()

	var events []model.UsageEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, eris.Wrap(rows.Err(), "sqlite: list events iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEvent(row scannable) (model.UsageEvent, error) {
	var (
		e       model.UsageEvent
		actual  sql.NullFloat64
		errMsg  sql.NullString
		channel string
		cmplx   string
		urgency string
		tier    string
	)
	err := row.Scan(
		&e.ID, &e.Timestamp, &e.SessionID, &e.ModelName, &e.ModelProvider,
		&e.InputTokens, &e.OutputTokens, &e.TotalTokens,
		&e.EstimatedCost, &actual,
		&channel, &cmplx, &urgency, &tier,
		&e.ResponseTimeMs, &e.Success, &errMsg,
	)
	if err != nil {
		return model.UsageEvent{}, eris.Wrap(err, "sqlite: scan event")
	}

	if actual.Valid {
		v := actual.Float64
		e.ActualCost = &v
	}
	if errMsg.Valid {
		e.ErrorMessage = errMsg.String
	}
	e.Channel = model.Channel(channel)
	e.Complexity = model.Complexity(cmplx)
	e.Urgency = model.Urgency(urgency)
	e.CustomerTier = model.CustomerTier(tier)
	return e, nil
}
