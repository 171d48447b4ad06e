package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	coreconfig "github.com/m3rciful/faqbot/core/config"
	"github.com/m3rciful/faqbot/core/journal"
	"github.com/m3rciful/faqbot/core/logger"
	"github.com/m3rciful/faqbot/core/metrics"
)

const journalWaitTimeout = 30 * time.Second

// Options control the bootstrap pipeline. Nil hooks fall back to the real implementations.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	Wait       func(context.Context, coreconfig.JournalConfig, time.Duration) error
	Connect    func(context.Context, coreconfig.JournalConfig) (*sqlx.DB, error)
	Migrate    func(coreconfig.JournalConfig) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	Metrics *metrics.Metrics
	// Journal is nil when deduplication is disabled.
	Journal *journal.Store
}

// Close releases the journal connection.
func (r *Result) Close() error {
	if r == nil || r.Journal == nil {
		return nil
	}
	return r.Journal.Close()
}

// Run initializes the logger and metrics and, when enabled, the update journal:
// wait for Postgres, connect, migrate and prune stale claims.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}
	cfg := opts.Config

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	res := &Result{}
	if cfg.MetricsEnabled() {
		res.Metrics = metrics.New(prometheus.NewRegistry())
	}

	if !cfg.Journal.Enabled {
		logger.DB.Info("journal disabled",
			slog.String("event", "journal.init"),
			slog.String("status", "skip"),
		)
		return res, nil
	}

	wait := opts.Wait
	if wait == nil {
		wait = journal.WaitForPostgres
	}
	if err := wait(ctx, cfg.Journal, journalWaitTimeout); err != nil {
		return nil, fmt.Errorf("bootstrap: database not ready: %w", err)
	}

	connect := opts.Connect
	if connect == nil {
		connect = journal.Connect
	}
	db, err := connect(ctx, cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = journal.RunMigrations
	}
	if err := migrate(cfg.Journal); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	res.Journal = journal.NewStore(db, res.Metrics)
	retention := time.Duration(cfg.Journal.RetentionHours) * time.Hour
	if _, err := res.Journal.Prune(ctx, retention); err != nil {
		logger.DB.Warn("journal prune failed",
			slog.String("event", "journal.prune"),
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
	return res, nil
}
