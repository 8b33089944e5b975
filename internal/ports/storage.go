package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

// SweepJournal persiste cada sweep ejecutado y sus legs.
// Es solo auditoría: el loop de trading nunca lo lee.
type SweepJournal interface {
	// SaveSweep persiste el sweep y sus legs en una transacción.
	SaveSweep(ctx context.Context, sweep domain.Sweep) error

	// GetSweeps devuelve los sweeps iniciados en el rango dado, más recientes primero.
	GetSweeps(ctx context.Context, from, to time.Time) ([]domain.Sweep, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
