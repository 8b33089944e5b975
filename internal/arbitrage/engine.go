package arbitrage

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

// TradeConfig son los parámetros fijos de la sesión de trading.
type TradeConfig struct {
	MinBalance int // centavos a conservar en la cuenta
	Margin     int // desviación mínima respecto a 100 por set, en centavos
}

// Engine aplica el protocolo de decisión a un evento: dos bloques
// independientes (YES y NO), cada uno con compra o, si no, venta.
type Engine struct {
	cfg      TradeConfig
	guard    *Guard
	executor *Executor
}

// NewEngine crea un Engine con el guard y executor dados.
func NewEngine(cfg TradeConfig, guard *Guard, executor *Executor) *Engine {
	return &Engine{cfg: cfg, guard: guard, executor: executor}
}

// Evaluate calcula sumas y disparos y ejecuta los sweeps que correspondan.
//
// Los bloques YES y NO se evalúan por separado, así que en un mismo ciclo
// pueden disparar un sweep YES y otro NO sobre el mismo evento. Si un sweep
// aborta, el evento termina para este ciclo y el bloque NO no se evalúa.
func (e *Engine) Evaluate(ctx context.Context, event domain.Event) domain.EventReport {
	sums := domain.ComputeSums(event.Markets)
	th := domain.ComputeThresholds(e.cfg.Margin, event.Size())

	report := domain.EventReport{
		EventTicker: event.Ticker,
		Markets:     event.Size(),
		Sums:        sums,
		Thresholds:  th,
		CheckedAt:   time.Now().UTC(),
	}

	slog.Debug("event priced",
		"event", event.Ticker,
		"markets", event.Size(),
		"yes_ask", sums.YesAsk, "yes_ask_trigger", th.YesAsk,
		"yes_bid", sums.YesBid, "yes_bid_trigger", th.YesBid,
		"no_ask", sums.NoAsk, "no_ask_trigger", th.NoAsk,
		"no_bid", sums.NoBid, "no_bid_trigger", th.NoBid,
	)

	blocks := []struct {
		side    domain.Side
		buyHit  bool
		sellHit bool
	}{
		{domain.SideYes, th.BuyYes(sums), th.SellYes(sums)},
		{domain.SideNo, th.BuyNo(sums), th.SellNo(sums)},
	}

	for _, b := range blocks {
		sweep, ran := e.decide(ctx, event, b.side, b.buyHit, b.sellHit)
		if !ran {
			continue
		}
		report.Sweeps = append(report.Sweeps, sweep)
		if sweep.Aborted() {
			break
		}
	}

	return report
}

// decide evalúa un bloque: compra si el disparo de ask cruza y el evento es
// operable; si no, venta con la misma condición sobre el bid.
func (e *Engine) decide(ctx context.Context, event domain.Event, side domain.Side, buyHit, sellHit bool) (domain.Sweep, bool) {
	if buyHit && e.orderable(ctx, event, side, domain.ActionBuy) {
		return e.executor.Execute(ctx, event, side, domain.ActionBuy), true
	}
	if sellHit && e.orderable(ctx, event, side, domain.ActionSell) {
		return e.executor.Execute(ctx, event, side, domain.ActionSell), true
	}
	return domain.Sweep{}, false
}

func (e *Engine) orderable(ctx context.Context, event domain.Event, side domain.Side, action domain.Action) bool {
	v := e.guard.Orderable(ctx, event.Markets, side, action, e.cfg.MinBalance)
	if !v.Orderable {
		slog.Info("trigger crossed but not orderable",
			"event", event.Ticker,
			"side", side,
			"action", action,
			"market", v.Market,
			"reason", v.Reason,
		)
	}
	return v.Orderable
}
