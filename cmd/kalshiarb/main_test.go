package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/kalshiarb/config"
	"github.com/alejandrodnm/kalshiarb/internal/adapters/storage"
	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

func TestPrintSweeps_EmptyDSNIsError(t *testing.T) {
	var buf bytes.Buffer

	err := printSweeps(&buf, "", 24*time.Hour)

	require.ErrorIs(t, err, errJournalDisabled)
	assert.Empty(t, buf.String())
}

func TestPrintSweeps_ReadsJournal(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "journal.db")
	started := time.Now().UTC().Add(-time.Minute)

	db, err := storage.NewSQLiteStorage(dsn)
	require.NoError(t, err)
	require.NoError(t, db.SaveSweep(context.Background(), domain.Sweep{
		ID:          "s1",
		EventTicker: "KXEVT",
		Side:        domain.SideYes,
		Action:      domain.ActionBuy,
		Status:      domain.SweepAborted,
		Legs: []domain.Leg{
			{MarketTicker: "KXEVT-A", PriceCents: 30, Outcome: domain.LegPlaced, OrderID: "o1"},
			{MarketTicker: "KXEVT-B", PriceCents: 31, Outcome: domain.LegRejected, Error: "HTTP 400"},
		},
		StartedAt:  started,
		FinishedAt: started.Add(200 * time.Millisecond),
	}))
	require.NoError(t, db.Close())

	var buf bytes.Buffer
	require.NoError(t, printSweeps(&buf, dsn, time.Hour))

	out := buf.String()
	assert.Contains(t, out, "KXEVT")
	assert.Contains(t, out, "1 sweeps, 1 aborted")
}

func TestRun_ReturnsErrorsInsteadOfExiting(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		err := run(&config.Config{}, options{})

		var cfgErr *domain.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "events", cfgErr.Field)
	})

	t.Run("missing private key", func(t *testing.T) {
		cfg := &config.Config{Events: []string{"KXEVT"}}
		cfg.API.KeyID = "key-123"
		cfg.API.PrivateKeyPath = filepath.Join(t.TempDir(), "missing.pem")

		err := run(cfg, options{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing.pem")
	})

	t.Run("sweeps without journal", func(t *testing.T) {
		err := run(&config.Config{}, options{sweeps: time.Hour})

		require.ErrorIs(t, err, errJournalDisabled)
	})
}
