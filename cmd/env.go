package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/llmcost-cli/internal/catalog"
	"github.com/sells-group/llmcost-cli/internal/cost"
	"github.com/sells-group/llmcost-cli/internal/estimate"
	"github.com/sells-group/llmcost-cli/internal/ledger"
	"github.com/sells-group/llmcost-cli/internal/resilience"
	"github.com/sells-group/llmcost-cli/internal/selector"
	"github.com/sells-group/llmcost-cli/internal/store"
)

// appEnv holds the initialized store, catalog, selector, and ledger used
// by the CLI commands and the HTTP server.
type appEnv struct {
	Store      store.Store
	Catalog    *catalog.Catalog
	Selector   *selector.Selector
	Tracker    *ledger.Tracker
	Calculator *cost.Calculator
	Estimator  estimate.Estimator
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens the configured database backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.SQLitePath
		if dsn == "" {
			dsn = "llmcost.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initEnv sets up the store, loads the model catalog, and builds the
// selector and ledger. Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "load catalog")
	}
	if cfg.Catalog.Path != "" {
		zap.L().Info("catalog loaded from file",
			zap.String("path", cfg.Catalog.Path),
			zap.Int("models", cat.Len()),
		)
	}

	split := cfg.Selector.Split
	if split.Input <= 0 && split.Output <= 0 {
		split = cost.DefaultSplit()
	}
	sel := selector.New(cat, selector.Config{
		EnterpriseFloorPer1K: cfg.Selector.EnterpriseFloorPer1K,
		PremiumFloorPer1K:    cfg.Selector.PremiumFloorPer1K,
		StandardCeilingPer1K: cfg.Selector.StandardCeilingPer1K,
		Split:                split,
	})

	tracker := ledger.New(st,
		ledger.WithAlertThreshold(cfg.Budget.AlertThreshold),
		ledger.WithRetry(resilience.FromConfig(
			cfg.Retry.MaxAttempts,
			cfg.Retry.InitialBackoffMs,
			cfg.Retry.MaxBackoffMs,
		)),
	)

	est := estimate.Estimator{CharsPerToken: cfg.Estimate.CharsPerToken}

	return &appEnv{
		Store:      st,
		Catalog:    cat,
		Selector:   sel,
		Tracker:    tracker,
		Calculator: cost.NewCalculator(split),
		Estimator:  est,
	}, nil
}
