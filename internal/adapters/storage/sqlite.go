package storage

// sqlite.go: journal de sweeps.
//
//   - `sweeps`: una fila por sweep ejecutado (evento, lado, acción, estado).
//   - `legs`: una fila por leg, en el orden de envío.
//   - Tiempos en milisegundos unix UTC.
//   - Prune automático al arrancar: sweeps > 90d con sus legs.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS sweeps (
    id           TEXT PRIMARY KEY,
    event_ticker TEXT    NOT NULL,
    side         TEXT    NOT NULL,
    action       TEXT    NOT NULL,
    status       TEXT    NOT NULL,
    legs_placed  INTEGER NOT NULL DEFAULT 0,
    legs_total   INTEGER NOT NULL DEFAULT 0,
    started_at   INTEGER NOT NULL,
    finished_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS legs (
    sweep_id        TEXT    NOT NULL REFERENCES sweeps(id) ON DELETE CASCADE,
    seq             INTEGER NOT NULL,
    market_ticker   TEXT    NOT NULL,
    price_cents     INTEGER NOT NULL,
    outcome         TEXT    NOT NULL,
    order_id        TEXT    NOT NULL DEFAULT '',
    client_order_id TEXT    NOT NULL DEFAULT '',
    error           TEXT    NOT NULL DEFAULT '',
    PRIMARY KEY (sweep_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_sweeps_started ON sweeps(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_sweeps_event   ON sweeps(event_ticker);
`

const retentionSweeps = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.SweepJournal usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada,
// aplica el schema y limpia sweeps antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveSweep persiste el sweep y sus legs en una transacción.
// Guardar dos veces el mismo sweep reemplaza la versión anterior.
func (s *SQLiteStorage) SaveSweep(ctx context.Context, sw domain.Sweep) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveSweep: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM legs WHERE sweep_id = ?`, sw.ID); err != nil {
		return fmt.Errorf("storage.SaveSweep: clear legs: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sweeps
			(id, event_ticker, side, action, status, legs_placed, legs_total, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status      = excluded.status,
			legs_placed = excluded.legs_placed,
			legs_total  = excluded.legs_total,
			finished_at = excluded.finished_at
	`,
		sw.ID, sw.EventTicker, string(sw.Side), string(sw.Action), string(sw.Status),
		sw.Placed(), len(sw.Legs), toMillis(sw.StartedAt), toMillis(sw.FinishedAt),
	); err != nil {
		return fmt.Errorf("storage.SaveSweep: insert sweep: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO legs
			(sweep_id, seq, market_ticker, price_cents, outcome, order_id, client_order_id, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveSweep: prepare: %w", err)
	}
	defer stmt.Close()

	for i, leg := range sw.Legs {
		if _, err := stmt.ExecContext(ctx,
			sw.ID, i, leg.MarketTicker, leg.PriceCents, string(leg.Outcome),
			leg.OrderID, leg.ClientOrderID, leg.Error,
		); err != nil {
			return fmt.Errorf("storage.SaveSweep: insert leg %s: %w", leg.MarketTicker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveSweep: commit: %w", err)
	}
	return nil
}

// GetSweeps devuelve los sweeps iniciados en [from, to], más recientes primero,
// con sus legs en orden de envío.
func (s *SQLiteStorage) GetSweeps(ctx context.Context, from, to time.Time) ([]domain.Sweep, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_ticker, side, action, status, started_at, finished_at
		FROM sweeps
		WHERE started_at BETWEEN ? AND ?
		ORDER BY started_at DESC, id
	`, toMillis(from), toMillis(to))
	if err != nil {
		return nil, fmt.Errorf("storage.GetSweeps: query: %w", err)
	}

	var sweeps []domain.Sweep
	for rows.Next() {
		var (
			sw                domain.Sweep
			side, action, st  string
			started, finished int64
		)
		if err := rows.Scan(&sw.ID, &sw.EventTicker, &side, &action, &st, &started, &finished); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage.GetSweeps: scan sweep: %w", err)
		}
		sw.Side = domain.Side(side)
		sw.Action = domain.Action(action)
		sw.Status = domain.SweepStatus(st)
		sw.StartedAt = fromMillis(started)
		sw.FinishedAt = fromMillis(finished)
		sweeps = append(sweeps, sw)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage.GetSweeps: rows: %w", err)
	}
	rows.Close()

	// con una sola conexión, las legs se leen después de cerrar el cursor de sweeps
	for i := range sweeps {
		legs, err := s.legs(ctx, sweeps[i].ID)
		if err != nil {
			return nil, err
		}
		sweeps[i].Legs = legs
	}
	return sweeps, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

func (s *SQLiteStorage) legs(ctx context.Context, sweepID string) ([]domain.Leg, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT market_ticker, price_cents, outcome, order_id, client_order_id, error
		FROM legs
		WHERE sweep_id = ?
		ORDER BY seq
	`, sweepID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetSweeps: query legs: %w", err)
	}
	defer rows.Close()

	var legs []domain.Leg
	for rows.Next() {
		var leg domain.Leg
		var outcome string
		if err := rows.Scan(&leg.MarketTicker, &leg.PriceCents, &outcome, &leg.OrderID, &leg.ClientOrderID, &leg.Error); err != nil {
			return nil, fmt.Errorf("storage.GetSweeps: scan leg: %w", err)
		}
		leg.Outcome = domain.LegOutcome(outcome)
		legs = append(legs, leg)
	}
	return legs, rows.Err()
}

// pruneOld elimina sweeps antiguos; las legs caen por ON DELETE CASCADE.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionSweeps)
	s.db.ExecContext(ctx, `DELETE FROM sweeps WHERE started_at < ?`, toMillis(cutoff))
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
