package paper

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

// Account simula una cuenta en modo dry-run: acepta todas las órdenes
// como ejecutadas al precio límite y lleva un saldo virtual en centavos.
// Implementa ports.BalanceProvider y ports.OrderExecutor.
type Account struct {
	mu      sync.Mutex
	balance int
	orders  []domain.Order
}

// NewAccount crea una cuenta virtual con el saldo inicial dado.
func NewAccount(startBalanceCents int) *Account {
	return &Account{balance: startBalanceCents}
}

// GetBalance devuelve el saldo virtual.
func (a *Account) GetBalance(_ context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance, nil
}

// PlaceOrder registra la orden sin enviarla. Una compra descuenta el precio
// del saldo y una venta lo suma.
func (a *Account) PlaceOrder(_ context.Context, o domain.Order) (domain.PlacedOrder, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	notional := o.PriceCents * o.Count
	if o.Action == domain.ActionBuy {
		a.balance -= notional
	} else {
		a.balance += notional
	}
	a.orders = append(a.orders, o)

	placed := domain.PlacedOrder{
		OrderID:       "paper-" + uuid.NewString(),
		ClientOrderID: o.ClientOrderID,
		Status:        "executed",
	}
	slog.Info("[DRY RUN] order simulated",
		"market", o.MarketTicker,
		"action", o.Action,
		"side", o.Side,
		"price", o.PriceCents,
		"count", o.Count,
		"balance", a.balance,
	)
	return placed, nil
}

// Orders devuelve una copia de las órdenes simuladas, en orden de envío.
func (a *Account) Orders() []domain.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Order, len(a.orders))
	copy(out, a.orders)
	return out
}
