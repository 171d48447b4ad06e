package bootstrap

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/faqbot/core/config"
)

func baseConfig(t *testing.T) *coreconfig.Config {
	t.Helper()
	cfg := &coreconfig.Config{Telegram: coreconfig.TelegramConfig{Token: "123:abc"}}
	require.NoError(t, coreconfig.Normalize(cfg))
	return cfg
}

func noLogger(*coreconfig.Config) error { return nil }

func TestRunRequiresConfig(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.Error(t, err)
}

func TestRunWithoutJournal(t *testing.T) {
	res, err := Run(context.Background(), Options{
		Config:     baseConfig(t),
		LoggerInit: noLogger,
		Connect: func(context.Context, coreconfig.JournalConfig) (*sqlx.DB, error) {
			t.Fatal("connect must not be called")
			return nil, nil
		},
	})
	require.NoError(t, err)
	assert.NotNil(t, res.Metrics)
	assert.Nil(t, res.Journal)
	assert.NoError(t, res.Close())
}

func TestRunLoggerFailure(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Config:     baseConfig(t),
		LoggerInit: func(*coreconfig.Config) error { return errors.New("no log dir") },
	})
	assert.ErrorContains(t, err, "logger init failed")
}

func journalConfig(t *testing.T) *coreconfig.Config {
	cfg := baseConfig(t)
	cfg.Journal = coreconfig.JournalConfig{Enabled: true, Host: "db", Name: "faq"}
	require.NoError(t, coreconfig.Normalize(cfg))
	return cfg
}

func noWait(context.Context, coreconfig.JournalConfig, time.Duration) error { return nil }

func TestRunWithJournalPrunes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM update_journal WHERE received_at < $1")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	migrated := false
	res, err := Run(context.Background(), Options{
		Config:     journalConfig(t),
		LoggerInit: noLogger,
		Wait:       noWait,
		Connect: func(context.Context, coreconfig.JournalConfig) (*sqlx.DB, error) {
			return sqlx.NewDb(db, "postgres"), nil
		},
		Migrate: func(coreconfig.JournalConfig) error {
			migrated = true
			return nil
		},
	})
	require.NoError(t, err)
	assert.True(t, migrated)
	require.NotNil(t, res.Journal)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectClose()
	assert.NoError(t, res.Close())
}

func TestRunMigrationFailureClosesDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	_, err = Run(context.Background(), Options{
		Config:     journalConfig(t),
		LoggerInit: noLogger,
		Wait:       noWait,
		Connect: func(context.Context, coreconfig.JournalConfig) (*sqlx.DB, error) {
			return sqlx.NewDb(db, "postgres"), nil
		},
		Migrate: func(coreconfig.JournalConfig) error { return errors.New("dirty") },
	})
	assert.ErrorContains(t, err, "migrations failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
