package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

// Resultados de un evento en un ciclo, usados como label.
const (
	ResultNoBet      = "no_bet"
	ResultBet        = "bet"
	ResultAborted    = "aborted"
	ResultMalformed  = "malformed"
	ResultFetchError = "fetch_error"
	ResultEmpty      = "empty"
)

// Metrics agrupa los collectors del bot en un registry propio.
// Todos los métodos aceptan un receptor nil y no hacen nada.
type Metrics struct {
	registry  *prometheus.Registry
	passes    prometheus.Counter
	events    *prometheus.CounterVec
	sweeps    *prometheus.CounterVec
	legs      *prometheus.CounterVec
	anomalies prometheus.Counter
	evalTime  prometheus.Histogram
}

// New crea y registra los collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kalshiarb_passes_total",
			Help: "Completed passes over the configured event list",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kalshiarb_events_total",
			Help: "Event checks by result",
		}, []string{"result"}),
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kalshiarb_sweeps_total",
			Help: "Sweeps executed by side, action and status",
		}, []string{"side", "action", "status"}),
		legs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kalshiarb_legs_total",
			Help: "Sweep legs by outcome",
		}, []string{"outcome"}),
		anomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kalshiarb_malformed_responses_total",
			Help: "Market data payloads missing the markets list",
		}),
		evalTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kalshiarb_event_check_seconds",
			Help:    "Time to fetch, evaluate and execute one event",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.passes, m.events, m.sweeps, m.legs, m.anomalies, m.evalTime)
	return m
}

// Registry devuelve el registry con los collectors del bot.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObservePass cuenta una pasada completa por la lista de eventos.
func (m *Metrics) ObservePass() {
	if m == nil {
		return
	}
	m.passes.Inc()
}

// ObserveEvent cuenta un evento con un resultado sin report (malformed, error, vacío).
func (m *Metrics) ObserveEvent(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(result).Inc()
	m.evalTime.Observe(elapsed.Seconds())
	if result == ResultMalformed {
		m.anomalies.Inc()
	}
}

// ObserveReport cuenta el evento evaluado, sus sweeps y sus legs.
func (m *Metrics) ObserveReport(r domain.EventReport, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ObserveEvent(ReportResult(r), elapsed)
	for _, s := range r.Sweeps {
		m.sweeps.WithLabelValues(string(s.Side), string(s.Action), string(s.Status)).Inc()
		for _, l := range s.Legs {
			m.legs.WithLabelValues(string(l.Outcome)).Inc()
		}
	}
}

// ReportResult clasifica un report: aborted > bet > no_bet.
func ReportResult(r domain.EventReport) string {
	switch {
	case r.Aborted():
		return ResultAborted
	case r.BetAttempted():
		return ResultBet
	default:
		return ResultNoBet
	}
}

// Serve expone /metrics y /healthz en addr hasta que ctx se cancele.
// Bloquea; devuelve nil tras un apagado limpio. Con addr vacío no hace nada.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	if addr == "" {
		slog.Info("metrics disabled: empty addr")
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("metrics server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics.Serve: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics.Serve: shutdown: %w", err)
	}
	slog.Info("metrics server stopped")
	return nil
}
