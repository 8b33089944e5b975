package notify_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/kalshiarb/internal/adapters/notify"
	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

func makeReport(sweeps ...domain.Sweep) domain.EventReport {
	markets := []domain.Market{
		{Ticker: "EVT-A", YesAsk: 32, YesBid: 30, NoAsk: 70, NoBid: 68},
		{Ticker: "EVT-B", YesAsk: 33, YesBid: 31, NoAsk: 69, NoBid: 67},
		{Ticker: "EVT-C", YesAsk: 32, YesBid: 30, NoAsk: 70, NoBid: 68},
	}
	return domain.EventReport{
		EventTicker: "EVT",
		Markets:     len(markets),
		Sums:        domain.ComputeSums(markets),
		Thresholds:  domain.ComputeThresholds(4, len(markets)),
		Sweeps:      sweeps,
		CheckedAt:   time.Now(),
	}
}

func buyYes(status domain.SweepStatus, outcomes ...domain.LegOutcome) domain.Sweep {
	sw := domain.Sweep{ID: "s1", EventTicker: "EVT", Side: domain.SideYes, Action: domain.ActionBuy, Status: status}
	for i, o := range outcomes {
		sw.Legs = append(sw.Legs, domain.Leg{
			MarketTicker: []string{"EVT-A", "EVT-B", "EVT-C"}[i],
			PriceCents:   32,
			Outcome:      o,
		})
	}
	return sw
}

func TestConsole_Notify_NoBet(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, n.Notify(context.Background(), makeReport()))

	out := buf.String()
	assert.Contains(t, out, "EVT n=3")
	assert.Contains(t, out, "yes ask 97/98")
	assert.Contains(t, out, "NO BET ATTEMPTED")
}

func TestConsole_Notify_BetPlaced(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	r := makeReport(buyYes(domain.SweepCompleted, domain.LegPlaced, domain.LegPlaced, domain.LegPlaced))
	require.NoError(t, n.Notify(context.Background(), r))

	out := buf.String()
	assert.Contains(t, out, "BUY YES 3/3 completed")
	assert.NotContains(t, out, "NO BET ATTEMPTED")
}

func TestConsole_Notify_AbortedIsNotNoBet(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	// abortado en el primer leg: nada colocado, pero no es "sin apuesta"
	r := makeReport(buyYes(domain.SweepAborted, domain.LegRejected))
	require.NoError(t, n.Notify(context.Background(), r))

	out := buf.String()
	assert.Contains(t, out, "BUY YES 0/1 aborted")
	assert.NotContains(t, out, "NO BET ATTEMPTED")
}

func TestConsole_Notify_Table(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	r := makeReport(buyYes(domain.SweepAborted, domain.LegPlaced, domain.LegTransportFailed))
	require.NoError(t, n.Notify(context.Background(), r))

	out := buf.String()
	assert.Contains(t, out, "YES ask")
	assert.Contains(t, out, "<= 98")
	assert.Contains(t, out, "BUY YES")
	assert.Contains(t, out, "EVT-B")
	assert.Contains(t, out, "transport_failed")
}

func TestPrintSweeps(t *testing.T) {
	var buf bytes.Buffer
	now := time.Now()
	sw := buyYes(domain.SweepAborted, domain.LegPlaced, domain.LegRejected)
	sw.StartedAt = now
	sw.FinishedAt = now.Add(120 * time.Millisecond)

	notify.PrintSweeps(&buf, []domain.Sweep{sw})

	out := buf.String()
	assert.Contains(t, out, "EVT")
	assert.Contains(t, out, "BUY YES")
	assert.Contains(t, out, "1 sweeps, 1 aborted")

	buf.Reset()
	notify.PrintSweeps(&buf, nil)
	assert.Contains(t, buf.String(), "no sweeps recorded")
}
