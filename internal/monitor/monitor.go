package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
	"github.com/alejandrodnm/kalshiarb/internal/metrics"
	"github.com/alejandrodnm/kalshiarb/internal/ports"
)

// sinkTimeout acota la escritura en los sinks de un evento.
const sinkTimeout = 5 * time.Second

// Config contiene la configuración del monitor. Es inmutable durante la sesión.
type Config struct {
	Events []string // event tickers en el orden en que se procesan
}

// Evaluator aplica el protocolo de decisión a un evento ya cotizado.
// Lo implementa *arbitrage.Engine.
type Evaluator interface {
	Evaluate(ctx context.Context, event domain.Event) domain.EventReport
}

// Monitor es el loop exterior: recorre los eventos configurados uno a uno,
// de principio a fin, y vuelve a empezar hasta que el contexto se cancele.
type Monitor struct {
	cfg       Config
	markets   ports.MarketProvider
	engine    Evaluator
	anomalies ports.AnomalyLog
	journal   ports.SweepJournal
	notifier  ports.Notifier
	metrics   *metrics.Metrics
}

// New crea un Monitor con todas las dependencias inyectadas.
// anomalies, journal, notifier y m pueden ser nil.
func New(
	cfg Config,
	markets ports.MarketProvider,
	engine Evaluator,
	anomalies ports.AnomalyLog,
	journal ports.SweepJournal,
	notifier ports.Notifier,
	m *metrics.Metrics,
) *Monitor {
	return &Monitor{
		cfg:       cfg,
		markets:   markets,
		engine:    engine,
		anomalies: anomalies,
		journal:   journal,
		notifier:  notifier,
		metrics:   m,
	}
}

// Run repite pasadas sobre la lista de eventos sin pausa hasta que ctx se
// cancele. La cancelación se comprueba entre eventos; un evento en curso
// termina con los errores de contexto que devuelvan sus llamadas.
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("monitor starting", "events", m.cfg.Events)

	for {
		m.pass(ctx)
		if ctx.Err() != nil {
			slog.Info("monitor stopped")
			return nil
		}
		m.metrics.ObservePass()
	}
}

// RunOnce hace exactamente una pasada y devuelve los reports de los eventos
// que llegaron a evaluarse.
func (m *Monitor) RunOnce(ctx context.Context) []domain.EventReport {
	reports := m.pass(ctx)
	m.metrics.ObservePass()
	return reports
}

// pass procesa cada evento configurado en orden.
func (m *Monitor) pass(ctx context.Context) []domain.EventReport {
	reports := make([]domain.EventReport, 0, len(m.cfg.Events))
	for _, ticker := range m.cfg.Events {
		if ctx.Err() != nil {
			break
		}
		if r, ok := m.checkEvent(ctx, ticker); ok {
			reports = append(reports, r)
		}
	}
	return reports
}

// checkEvent hace fetch → evaluate → notify/persist para un evento.
// Cualquier fallo se registra y el evento se salta en este ciclo.
func (m *Monitor) checkEvent(ctx context.Context, ticker string) (domain.EventReport, bool) {
	start := time.Now()

	markets, err := m.markets.FetchEventMarkets(ctx, ticker)
	if err != nil {
		m.handleFetchError(ctx, ticker, err, start)
		return domain.EventReport{}, false
	}

	event, err := domain.NewEvent(ticker, markets)
	if err != nil {
		slog.Warn("event skipped", "event", ticker, "err", err)
		m.metrics.ObserveEvent(metrics.ResultEmpty, time.Since(start))
		return domain.EventReport{}, false
	}

	report := m.engine.Evaluate(ctx, event)

	// los sinks no heredan la cancelación: un sweep abortado por shutdown
	// con legs ya colocados tiene que quedar en el journal
	sinkCtx, cancel := sinkContext(ctx)
	defer cancel()

	if m.notifier != nil {
		if err := m.notifier.Notify(sinkCtx, report); err != nil {
			slog.Warn("notifier error", "event", ticker, "err", err)
		}
	}

	if m.journal != nil {
		for _, s := range report.Sweeps {
			if err := m.journal.SaveSweep(sinkCtx, s); err != nil {
				slog.Warn("journal error", "event", ticker, "sweep", s.ID, "err", err)
			}
		}
	}

	m.metrics.ObserveReport(report, time.Since(start))

	slog.Debug("event check complete",
		"event", ticker,
		"sweeps", len(report.Sweeps),
		"bet_attempted", report.BetAttempted(),
		"aborted", report.Aborted(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return report, true
}

// handleFetchError registra un fallo de market data. Los payloads malformados
// además van al anomaly log con el body crudo.
func (m *Monitor) handleFetchError(ctx context.Context, ticker string, err error, start time.Time) {
	var mre *domain.MalformedResponseError
	if !errors.As(err, &mre) {
		slog.Warn("market data fetch failed", "event", ticker, "err", err)
		m.metrics.ObserveEvent(metrics.ResultFetchError, time.Since(start))
		return
	}

	slog.Warn("bad market response", "event", ticker, "raw", string(mre.Raw))
	m.metrics.ObserveEvent(metrics.ResultMalformed, time.Since(start))

	if m.anomalies == nil {
		return
	}
	sinkCtx, cancel := sinkContext(ctx)
	defer cancel()
	if err := m.anomalies.RecordMalformed(sinkCtx, ticker, mre.Raw); err != nil {
		slog.Warn("anomaly log error", "event", ticker, "err", err)
	}
}

// sinkContext deriva un contexto para notifier, journal y anomaly log que
// sobrevive a la cancelación de ctx, acotado por sinkTimeout.
func sinkContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
}
