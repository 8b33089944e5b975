package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func threeMarkets() []Market {
	return []Market{
		{Ticker: "EVT-A", Status: StatusActive, YesAsk: 32, YesBid: 30, NoAsk: 70, NoBid: 68},
		{Ticker: "EVT-B", Status: StatusActive, YesAsk: 33, YesBid: 31, NoAsk: 69, NoBid: 67},
		{Ticker: "EVT-C", Status: StatusActive, YesAsk: 32, YesBid: 29, NoAsk: 71, NoBid: 68},
	}
}

// --- SumPrice ---

func TestSumPrice_AllFields(t *testing.T) {
	m := threeMarkets()
	assert.Equal(t, 97, SumPrice(m, SideYes, QuoteAsk))
	assert.Equal(t, 90, SumPrice(m, SideYes, QuoteBid))
	assert.Equal(t, 210, SumPrice(m, SideNo, QuoteAsk))
	assert.Equal(t, 203, SumPrice(m, SideNo, QuoteBid))
}

func TestSumPrice_OrderIndependent(t *testing.T) {
	m := threeMarkets()
	reversed := []Market{m[2], m[1], m[0]}
	rotated := []Market{m[1], m[2], m[0]}

	for _, side := range []Side{SideYes, SideNo} {
		for _, q := range []Quote{QuoteAsk, QuoteBid} {
			want := SumPrice(m, side, q)
			assert.Equal(t, want, SumPrice(reversed, side, q))
			assert.Equal(t, want, SumPrice(rotated, side, q))
		}
	}
}

func TestSumPrice_Empty(t *testing.T) {
	assert.Equal(t, 0, SumPrice(nil, SideYes, QuoteAsk))
}

func TestComputeSums(t *testing.T) {
	s := ComputeSums(threeMarkets())
	assert.Equal(t, Sums{YesAsk: 97, YesBid: 90, NoAsk: 210, NoBid: 203}, s)
}

// --- ComputeThresholds ---

func TestComputeThresholds_Example(t *testing.T) {
	// margin=4, n=3 → 2/2, 98, 102, 196, 204
	th := ComputeThresholds(4, 3)
	assert.Equal(t, 2, th.HalfFloor)
	assert.Equal(t, 2, th.HalfCeil)
	assert.Equal(t, 98, th.YesAsk)
	assert.Equal(t, 102, th.YesBid)
	assert.Equal(t, 196, th.NoAsk)
	assert.Equal(t, 204, th.NoBid)
}

func TestComputeThresholds_OddMarginIsAsymmetric(t *testing.T) {
	th := ComputeThresholds(5, 4)
	assert.Equal(t, 2, th.HalfFloor)
	assert.Equal(t, 3, th.HalfCeil)
	assert.Equal(t, 98, th.YesAsk)
	assert.Equal(t, 103, th.YesBid)
	assert.Equal(t, 294, th.NoAsk)
	assert.Equal(t, 309, th.NoBid)
}

func TestComputeThresholds_Properties(t *testing.T) {
	for margin := 0; margin <= 100; margin++ {
		for n := 1; n <= 8; n++ {
			th := ComputeThresholds(margin, n)
			assert.Equal(t, margin, th.HalfFloor+th.HalfCeil)
			assert.Equal(t, margin/2, th.HalfFloor)
			assert.Equal(t, 100, th.YesAsk+th.HalfFloor)
			assert.Equal(t, 100, th.YesBid-th.HalfCeil)
			assert.Equal(t, th.YesAsk*(n-1), th.NoAsk)
			assert.Equal(t, th.YesBid*(n-1), th.NoBid)
		}
	}
}

func TestThresholds_Predicates(t *testing.T) {
	th := ComputeThresholds(4, 3)

	assert.True(t, th.BuyYes(Sums{YesAsk: 98}), "igual al disparo cuenta")
	assert.False(t, th.BuyYes(Sums{YesAsk: 99}))
	assert.True(t, th.SellYes(Sums{YesBid: 102}))
	assert.False(t, th.SellYes(Sums{YesBid: 101}))
	assert.True(t, th.BuyNo(Sums{NoAsk: 196}))
	assert.False(t, th.BuyNo(Sums{NoAsk: 197}))
	assert.True(t, th.SellNo(Sums{NoBid: 204}))
	assert.False(t, th.SellNo(Sums{NoBid: 203}))
}

// --- FullSetCost / Submittable ---

func TestFullSetCost(t *testing.T) {
	assert.Equal(t, 100, FullSetCost(SideYes, 3))
	assert.Equal(t, 200, FullSetCost(SideNo, 3))
	assert.Equal(t, 0, FullSetCost(SideNo, 1))
}

func TestSubmittable(t *testing.T) {
	assert.False(t, Submittable(0))
	assert.False(t, Submittable(1), "precio 1 se salta")
	assert.True(t, Submittable(2))
	assert.True(t, Submittable(99))
	assert.False(t, Submittable(100))
}
