package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarket_Price(t *testing.T) {
	m := Market{YesAsk: 40, YesBid: 38, NoAsk: 62, NoBid: 60}
	assert.Equal(t, 40, m.Price(SideYes, QuoteAsk))
	assert.Equal(t, 38, m.Price(SideYes, QuoteBid))
	assert.Equal(t, 62, m.Price(SideNo, QuoteAsk))
	assert.Equal(t, 60, m.Price(SideNo, QuoteBid))
	assert.Equal(t, 0, m.Price(Side("maybe"), QuoteAsk))
}

func TestMarket_IsActive(t *testing.T) {
	assert.True(t, Market{Status: StatusActive}.IsActive())
	assert.False(t, Market{Status: StatusClosed}.IsActive())
	assert.False(t, Market{Status: "paused"}.IsActive())
}

func TestNewEvent_Empty(t *testing.T) {
	_, err := NewEvent("EVT", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyEvent)
}

func TestNewEvent_KeepsOrder(t *testing.T) {
	ev, err := NewEvent("EVT", threeMarkets())
	require.NoError(t, err)
	assert.Equal(t, 3, ev.Size())
	assert.Equal(t, "EVT-A", ev.Markets[0].Ticker)
	assert.Equal(t, "EVT-C", ev.Markets[2].Ticker)
}

func TestQuoteFor(t *testing.T) {
	q, ok := QuoteFor(ActionBuy)
	assert.True(t, ok)
	assert.Equal(t, QuoteAsk, q)

	q, ok = QuoteFor(ActionSell)
	assert.True(t, ok)
	assert.Equal(t, QuoteBid, q)

	_, ok = QuoteFor(Action("hold"))
	assert.False(t, ok)
}

func TestNewOrder_OneLotUniqueID(t *testing.T) {
	a := NewOrder("EVT-A", ActionBuy, SideYes, 32)
	b := NewOrder("EVT-A", ActionBuy, SideYes, 32)
	assert.Equal(t, 1, a.Count)
	assert.NotEmpty(t, a.ClientOrderID)
	assert.NotEqual(t, a.ClientOrderID, b.ClientOrderID)
}

func TestClassifyOrderError(t *testing.T) {
	assert.Equal(t, LegPlaced, ClassifyOrderError(nil))

	rejected := fmt.Errorf("wrap: %w", &StatusError{Op: "order", Code: 400, Body: "bad"})
	assert.Equal(t, LegRejected, ClassifyOrderError(rejected))

	transport := &TransportError{Op: "order", Err: errors.New("connection reset")}
	assert.Equal(t, LegTransportFailed, ClassifyOrderError(transport))

	assert.Equal(t, LegTransportFailed, ClassifyOrderError(errors.New("unknown")))
}

func TestMalformedResponseError_Is(t *testing.T) {
	err := fmt.Errorf("fetch: %w", &MalformedResponseError{Op: "markets", Raw: []byte(`{}`)})
	assert.ErrorIs(t, err, ErrMalformedResponse)

	var mre *MalformedResponseError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, `{}`, string(mre.Raw))
}

func TestStatusError_Retryable(t *testing.T) {
	assert.True(t, (&StatusError{Code: 429}).Retryable())
	assert.True(t, (&StatusError{Code: 503}).Retryable())
	assert.False(t, (&StatusError{Code: 400}).Retryable())
}

func TestEventReport_BetAttempted(t *testing.T) {
	r := EventReport{}
	assert.False(t, r.BetAttempted())
	assert.False(t, r.Aborted())

	r.Sweeps = []Sweep{{
		Status: SweepCompleted,
		Legs:   []Leg{{Outcome: LegSkipped}, {Outcome: LegSkipped}},
	}}
	assert.False(t, r.BetAttempted(), "solo legs saltados no cuentan como apuesta")

	r.Sweeps = append(r.Sweeps, Sweep{
		Side:   SideNo,
		Action: ActionSell,
		Status: SweepAborted,
		Legs:   []Leg{{Outcome: LegPlaced}, {Outcome: LegRejected}},
	})
	assert.True(t, r.BetAttempted())
	assert.True(t, r.Aborted())
	assert.Equal(t, "SELL NO", r.Sweeps[1].Label())
}
