package domain

import "fmt"

// MarketStatus es el estado de ciclo de vida de un mercado en Kalshi.
type MarketStatus string

const (
	StatusActive   MarketStatus = "active"
	StatusInactive MarketStatus = "inactive"
	StatusClosed   MarketStatus = "closed"
)

// MaxPriceCents es el precio de un contrato que resuelve a favor (1 dólar).
const MaxPriceCents = 100

// Market es un resultado negociable dentro de un evento, con cotizaciones
// yes/no ask/bid en centavos enteros [0,100].
type Market struct {
	Ticker      string
	EventTicker string
	Title       string
	Status      MarketStatus
	YesAsk      int
	YesBid      int
	NoAsk       int
	NoBid       int
}

// IsActive devuelve true si el mercado acepta órdenes.
func (m Market) IsActive() bool {
	return m.Status == StatusActive
}

// Price devuelve la cotización del campo (side, quote).
// Devuelve 0 si la combinación no es válida.
func (m Market) Price(side Side, quote Quote) int {
	switch {
	case side == SideYes && quote == QuoteAsk:
		return m.YesAsk
	case side == SideYes && quote == QuoteBid:
		return m.YesBid
	case side == SideNo && quote == QuoteAsk:
		return m.NoAsk
	case side == SideNo && quote == QuoteBid:
		return m.NoBid
	default:
		return 0
	}
}

// Event es un conjunto de mercados mutuamente excluyentes y exhaustivos
// sobre una misma pregunta. El orden de Markets es el orden de ejecución.
type Event struct {
	Ticker  string
	Markets []Market
}

// NewEvent construye un Event validando que tenga al menos un mercado.
func NewEvent(ticker string, markets []Market) (Event, error) {
	if len(markets) == 0 {
		return Event{}, fmt.Errorf("domain.NewEvent %s: %w", ticker, ErrEmptyEvent)
	}
	return Event{Ticker: ticker, Markets: markets}, nil
}

// Size devuelve n, el número de mercados del evento.
func (e Event) Size() int {
	return len(e.Markets)
}
