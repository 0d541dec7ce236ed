package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/llmcost-cli/internal/model"
)

// Pool abstracts the pgxpool methods the store uses so tests can substitute
// pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool, for deployments where the
// ledger is shared between the pipeline and reporting jobs.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries prepared on each new connection. Inserts
// dominate the write path; the patch runs from the billing-sync job.
var preparedStatements = map[string]string{
	"insert_event": `INSERT INTO usage_events
		(id, ts, session_id, model_name, model_provider,
		 input_tokens, output_tokens, total_tokens,
		 estimated_cost, actual_cost,
		 channel, complexity, urgency, customer_tier,
		 response_time_ms, success, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
	"update_actual_cost": `UPDATE usage_events SET actual_cost = $1 WHERE id = $2`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, q := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, q); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS usage_events (
	id               TEXT PRIMARY KEY,
	ts               TIMESTAMPTZ NOT NULL,
	session_id       TEXT NOT NULL,
	model_name       TEXT NOT NULL,
	model_provider   TEXT NOT NULL,
	input_tokens     INTEGER NOT NULL,
	output_tokens    INTEGER NOT NULL,
	total_tokens     INTEGER NOT NULL,
	estimated_cost   DOUBLE PRECISION NOT NULL,
	actual_cost      DOUBLE PRECISION,
	channel          TEXT NOT NULL,
	complexity       TEXT NOT NULL,
	urgency          TEXT NOT NULL,
	customer_tier    TEXT NOT NULL,
	response_time_ms BIGINT NOT NULL DEFAULT 0,
	success          BOOLEAN NOT NULL,
	error_message    TEXT
);

CREATE INDEX IF NOT EXISTS idx_usage_events_ts ON usage_events(ts);
CREATE INDEX IF NOT EXISTS idx_usage_events_model ON usage_events(model_name);
CREATE INDEX IF NOT EXISTS idx_usage_events_channel ON usage_events(channel);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) InsertEvent(ctx context.Context, e model.UsageEvent) error {
	var actual *float64
	if e.ActualCost != nil {
		v := *e.ActualCost
		actual = &v
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO usage_events
		 (id, ts, session_id, model_name, model_provider,
		  input_tokens, output_tokens, total_tokens,
		  estimated_cost, actual_cost,
		  channel, complexity, urgency, customer_tier,
		  response_time_ms, success, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		e.ID, e.Timestamp.UTC(), e.SessionID, e.ModelName, e.ModelProvider,
		e.InputTokens, e.OutputTokens, e.TotalTokens,
		e.EstimatedCost, actual,
		string(e.Channel), string(e.Complexity), string(e.Urgency), string(e.CustomerTier),
		e.ResponseTimeMs, e.Success, e.ErrorMessage,
	)
	return eris.Wrap(err, "postgres: insert event")
}

func (s *PostgresStore) UpdateActualCost(ctx context.Context, eventID string, actualCost float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE usage_events SET actual_cost = $1 WHERE id = $2`,
		actualCost, eventID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update actual cost %s", eventID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("usage event not found: %s", eventID)
	}
	return nil
}

func (s *PostgresStore) ListEvents(ctx context.Context, start, end time.Time) ([]model.UsageEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, ts, session_id, model_name, model_provider,
		        input_tokens, output_tokens, total_tokens,
		        estimated_cost, actual_cost,
		        channel, complexity, urgency, customer_tier,
		        response_time_ms, success, error_message
		 FROM usage_events
		 WHERE ts >= $1 AND ts <= $2
		 ORDER BY ts ASC`,
		start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list events")
	}
	defer rows.Close()

	var events []model.UsageEvent
	for rows.Next() {
		var (
			e       model.UsageEvent
			actual  *float64
			errMsg  sql.NullString
			channel string
			cmplx   string
			urgency string
			tier    string
		)
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.SessionID, &e.ModelName, &e.ModelProvider,
			&e.InputTokens, &e.OutputTokens, &e.TotalTokens,
			&e.EstimatedCost, &actual,
			&channel, &cmplx, &urgency, &tier,
			&e.ResponseTimeMs, &e.Success, &errMsg,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan event")
		}
		e.ActualCost = actual
		if errMsg.Valid {
			e.ErrorMessage = errMsg.String
		}
		e.Channel = model.Channel(channel)
		e.Complexity = model.Complexity(cmplx)
		e.Urgency = model.Urgency(urgency)
		e.CustomerTier = model.CustomerTier(tier)
		events = append(events, e)
	}
	return events, eris.Wrap(rows.Err(), "postgres: list events iterate")
}
