package arbitrage

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
	"github.com/alejandrodnm/kalshiarb/internal/ports"
)

// Executor recorre los mercados de un evento en orden y envía un leg por
// mercado. Al primer fallo aborta: los legs restantes no se envían y los ya
// colocados no se deshacen.
type Executor struct {
	orders ports.OrderExecutor
}

// NewExecutor crea un Executor que envía órdenes a través de orders.
func NewExecutor(orders ports.OrderExecutor) *Executor {
	return &Executor{orders: orders}
}

// Execute ejecuta un sweep side/action sobre todos los mercados del evento.
// Los legs con precio fuera de (1, 100) se saltan sin abortar.
func (e *Executor) Execute(ctx context.Context, event domain.Event, side domain.Side, action domain.Action) (sweep domain.Sweep) {
	sweep = domain.Sweep{
		ID:          uuid.NewString(),
		EventTicker: event.Ticker,
		Side:        side,
		Action:      action,
		Status:      domain.SweepCompleted,
		StartedAt:   time.Now().UTC(),
	}
	defer func() { sweep.FinishedAt = time.Now().UTC() }()

	quote, _ := domain.QuoteFor(action)

	for _, m := range event.Markets {
		price := m.Price(side, quote)
		leg := domain.Leg{MarketTicker: m.Ticker, PriceCents: price}

		if !domain.Submittable(price) {
			leg.Outcome = domain.LegSkipped
			sweep.Legs = append(sweep.Legs, leg)
			slog.Debug("sweep: leg skipped", "event", event.Ticker, "market", m.Ticker, "price", price)
			continue
		}

		order := domain.NewOrder(m.Ticker, action, side, price)
		leg.ClientOrderID = order.ClientOrderID

		placed, err := e.orders.PlaceOrder(ctx, order)
		leg.Outcome = domain.ClassifyOrderError(err)
		if err != nil {
			leg.Error = err.Error()
			sweep.Legs = append(sweep.Legs, leg)
			sweep.Status = domain.SweepAborted
			slog.Error("ABORTING: leg failed, stopping remaining trades",
				"event", event.Ticker,
				"sweep", sweep.Label(),
				"market", m.Ticker,
				"outcome", leg.Outcome,
				"legs_placed", sweep.Placed(),
				"legs_total", len(event.Markets),
				"err", err,
			)
			return sweep
		}

		leg.OrderID = placed.OrderID
		sweep.Legs = append(sweep.Legs, leg)
		slog.Info("sweep: leg placed",
			"event", event.Ticker,
			"market", m.Ticker,
			"action", action,
			"side", side,
			"price", price,
			"order_id", placed.OrderID,
			"status", placed.Status,
		)
	}

	return sweep
}
