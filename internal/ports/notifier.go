package ports

import (
	"context"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

// Notifier presenta al operador el resultado de cada evento en cada ciclo.
type Notifier interface {
	Notify(ctx context.Context, report domain.EventReport) error
}
