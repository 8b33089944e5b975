package ports

import (
	"context"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

// OrderExecutor envía órdenes límite al exchange.
type OrderExecutor interface {
	// PlaceOrder envía la orden una sola vez, sin reintentos.
	// Los errores son *domain.TransportError (red, timeout) o
	// *domain.StatusError (el exchange rechazó la orden).
	PlaceOrder(ctx context.Context, order domain.Order) (domain.PlacedOrder, error)
}
