package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/faqbot/core/logger"
	"github.com/m3rciful/faqbot/core/metrics"
)

const (
	claimQuery   = `INSERT INTO update_journal (update_id, kind, received_at) VALUES ($1, $2, $3) ON CONFLICT (update_id) DO NOTHING`
	releaseQuery = `DELETE FROM update_journal WHERE update_id = $1`
	pruneQuery   = `DELETE FROM update_journal WHERE received_at < $1`
	countQuery   = `SELECT COUNT(*) FROM update_journal`
)

// Store records which Telegram updates were already accepted.
// Only update ids and their kind are kept.
type Store struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB, m *metrics.Metrics) *Store {
	return &Store{db: db, metrics: m, now: time.Now}
}

// Claim marks updateID as taken. It returns false when another delivery of
// the same update already claimed it.
func (s *Store) Claim(ctx context.Context, updateID int, kind string) (bool, error) {
	res, err := s.db.ExecContext(ctx, claimQuery, int64(updateID), kind, s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("journal claim %d: %w", updateID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("journal claim %d: %w", updateID, err)
	}
	if n == 0 {
		s.metrics.RecordJournalDuplicate()
		logger.Debug(ctx, "db", "journal.claim",
			slog.String("status", "duplicate"),
			slog.String("kind", kind),
		)
		return false, nil
	}
	return true, nil
}

// Release drops the claim so a redelivery of updateID is processed again.
func (s *Store) Release(ctx context.Context, updateID int) error {
	if _, err := s.db.ExecContext(ctx, releaseQuery, int64(updateID)); err != nil {
		return fmt.Errorf("journal release %d: %w", updateID, err)
	}
	return nil
}

// Prune removes claims older than retention and returns how many were deleted.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	start := time.Now()
	cutoff := s.now().UTC().Add(-retention)
	res, err := s.db.ExecContext(ctx, pruneQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("journal prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("journal prune: %w", err)
	}
	logger.Info(ctx, "db", "journal.prune",
		slog.String("status", "ok"),
		slog.Int64("deleted", n),
		slog.Duration("retention", retention),
		slog.Duration("duration", logger.Took(start)),
	)
	return n, nil
}

// Count returns the number of stored claims.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, countQuery); err != nil {
		return 0, fmt.Errorf("journal count: %w", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
