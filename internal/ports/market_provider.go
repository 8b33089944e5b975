package ports

import (
	"context"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

// MarketProvider obtiene las cotizaciones actuales de los mercados de un evento.
type MarketProvider interface {
	// FetchEventMarkets devuelve los mercados abiertos del evento, en el orden
	// del exchange. Un payload sin la lista de mercados devuelve un error que
	// cumple errors.Is(err, domain.ErrMalformedResponse).
	FetchEventMarkets(ctx context.Context, eventTicker string) ([]domain.Market, error)
}
