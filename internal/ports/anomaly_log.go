package ports

import "context"

// AnomalyLog registra respuestas de market data malformadas.
// Es append-only: una entrada por ocurrencia con el payload crudo.
type AnomalyLog interface {
	RecordMalformed(ctx context.Context, eventTicker string, raw []byte) error
}
