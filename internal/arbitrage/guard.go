package arbitrage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
	"github.com/alejandrodnm/kalshiarb/internal/ports"
)

// Verdict es el resultado del guard: si el evento es operable y, si no, por qué.
type Verdict struct {
	Orderable bool
	Market    string // mercado que falló, vacío si el fallo no es de un mercado
	Reason    string
}

func pass() Verdict { return Verdict{Orderable: true} }

func reject(market, format string, args ...any) Verdict {
	return Verdict{Market: market, Reason: fmt.Sprintf(format, args...)}
}

// Guard valida que todos los mercados de un evento sean operables para un
// side/action antes de enviar ningún leg.
type Guard struct {
	balances ports.BalanceProvider
}

// NewGuard crea un Guard que lee el saldo de balances.
func NewGuard(balances ports.BalanceProvider) *Guard {
	return &Guard{balances: balances}
}

// Orderable comprueba, mercado por mercado:
//   - el mercado está activo;
//   - en compras, el saldo supera estrictamente el coste del set completo
//     más minBalance (yes: 100, no: 100·(n-1));
//   - la cotización relevante (ask en compra, bid en venta) no es ≤0 ni 100.
//
// Las ventas no comprueban saldo ni inventario.
// El saldo se lee una vez por llamada. Una acción o lado desconocido, o un
// error leyendo el saldo, devuelven un Verdict no operable sin escalar.
func (g *Guard) Orderable(ctx context.Context, markets []domain.Market, side domain.Side, action domain.Action, minBalance int) Verdict {
	quote, ok := domain.QuoteFor(action)
	if !ok {
		return reject("", "unknown action %q", action)
	}
	if !side.Valid() {
		return reject("", "unknown side %q", side)
	}

	balance, err := g.balances.GetBalance(ctx)
	if err != nil {
		slog.Warn("guard: balance unavailable", "side", side, "action", action, "err", err)
		return reject("", "balance unavailable: %v", err)
	}

	floor := domain.FullSetCost(side, len(markets)) + minBalance

	for _, m := range markets {
		if !m.IsActive() {
			return reject(m.Ticker, "status %q", m.Status)
		}

		if action == domain.ActionBuy && balance <= floor {
			return reject(m.Ticker, "balance %d <= %d", balance, floor)
		}

		price := m.Price(side, quote)
		if price <= 0 || price == domain.MaxPriceCents {
			return reject(m.Ticker, "no tradable %s_%s (%d)", side, quote, price)
		}
	}

	return pass()
}
