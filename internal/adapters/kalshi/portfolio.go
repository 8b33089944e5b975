package kalshi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

const (
	opBalance = "kalshi.GetBalance"
	opOrder   = "kalshi.PlaceOrder"
)

// GetBalance devuelve el saldo disponible en centavos.
func (c *Client) GetBalance(ctx context.Context) (int, error) {
	if !c.HasCredentials() {
		return 0, fmt.Errorf("%s: %w", opBalance, domain.ErrMissingCredentials)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Balance)
	defer cancel()

	body, err := c.get(ctx, opBalance, "/portfolio/balance")
	if err != nil {
		return 0, fmt.Errorf("kalshi.GetBalance: %w", err)
	}

	var resp apiBalanceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, &domain.MalformedResponseError{Op: opBalance, Raw: body, Err: err}
	}
	if resp.Balance == nil {
		return 0, &domain.MalformedResponseError{Op: opBalance, Raw: body, Err: errors.New(`missing "balance" field`)}
	}
	return *resp.Balance, nil
}

// PlaceOrder envía una orden límite una sola vez. Un HTTP ≥400 es un
// StatusError (rechazo); un fallo de red o timeout es un TransportError y la
// orden puede haber llegado igualmente al exchange.
func (c *Client) PlaceOrder(ctx context.Context, o domain.Order) (domain.PlacedOrder, error) {
	if !c.HasCredentials() {
		return domain.PlacedOrder{}, fmt.Errorf("%s: %w", opOrder, domain.ErrMissingCredentials)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Order)
	defer cancel()

	body, err := c.post(ctx, opOrder, "/portfolio/orders", toOrderRequest(o))
	if err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("kalshi.PlaceOrder %s: %w", o.MarketTicker, err)
	}

	var resp apiOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// la orden fue aceptada (2xx) aunque la respuesta no se pueda leer
		return domain.PlacedOrder{ClientOrderID: o.ClientOrderID}, nil
	}

	placed := domain.PlacedOrder{
		OrderID:       resp.Order.OrderID,
		ClientOrderID: resp.Order.ClientOrderID,
		Status:        resp.Order.Status,
	}
	if placed.ClientOrderID == "" {
		placed.ClientOrderID = o.ClientOrderID
	}
	return placed, nil
}
