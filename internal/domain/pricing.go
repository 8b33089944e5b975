package domain

// Sums son los cuatro agregados de precio de un evento en un ciclo.
type Sums struct {
	YesAsk int
	YesBid int
	NoAsk  int
	NoBid  int
}

// SumPrice suma el campo (side, quote) de todos los mercados.
// No valida la entrada.
func SumPrice(markets []Market, side Side, quote Quote) int {
	total := 0
	for _, m := range markets {
		total += m.Price(side, quote)
	}
	return total
}

// ComputeSums calcula los cuatro agregados usados por el protocolo de decisión.
func ComputeSums(markets []Market) Sums {
	return Sums{
		YesAsk: SumPrice(markets, SideYes, QuoteAsk),
		YesBid: SumPrice(markets, SideYes, QuoteBid),
		NoAsk:  SumPrice(markets, SideNo, QuoteAsk),
		NoBid:  SumPrice(markets, SideNo, QuoteBid),
	}
}

// Thresholds son los precios de disparo derivados del margen.
//
// El margen se reparte asimétricamente: la mitad inferior (floor) baja el
// disparo de compra y la superior (ceil) sube el de venta. Un set completo
// de YES vale 100 a valor justo; uno de NO vale 100·(n-1).
//
//	yes_ask = 100 - half_floor          compra YES si sum_yes_ask ≤ yes_ask
//	yes_bid = 100 + half_ceil           vende YES si sum_yes_bid ≥ yes_bid
//	no_ask  = (100 - half_floor)·(n-1)  compra NO si sum_no_ask ≤ no_ask
//	no_bid  = (100 + half_ceil)·(n-1)   vende NO si sum_no_bid ≥ no_bid
type Thresholds struct {
	Margin    int
	Markets   int
	HalfFloor int
	HalfCeil  int
	YesAsk    int
	YesBid    int
	NoAsk     int
	NoBid     int
}

// ComputeThresholds deriva los cuatro disparos para un margen y n mercados.
func ComputeThresholds(margin, n int) Thresholds {
	halfFloor := margin / 2
	halfCeil := margin - halfFloor

	yesAsk := MaxPriceCents - halfFloor
	yesBid := MaxPriceCents + halfCeil

	return Thresholds{
		Margin:    margin,
		Markets:   n,
		HalfFloor: halfFloor,
		HalfCeil:  halfCeil,
		YesAsk:    yesAsk,
		YesBid:    yesBid,
		NoAsk:     yesAsk * (n - 1),
		NoBid:     yesBid * (n - 1),
	}
}

// BuyYes devuelve true si comprar el set YES completo cuesta lo bastante poco.
func (t Thresholds) BuyYes(s Sums) bool { return s.YesAsk <= t.YesAsk }

// SellYes devuelve true si vender el set YES completo paga lo bastante.
func (t Thresholds) SellYes(s Sums) bool { return s.YesBid >= t.YesBid }

// BuyNo devuelve true si comprar el set NO completo cuesta lo bastante poco.
func (t Thresholds) BuyNo(s Sums) bool { return s.NoAsk <= t.NoAsk }

// SellNo devuelve true si vender el set NO completo paga lo bastante.
func (t Thresholds) SellNo(s Sums) bool { return s.NoBid >= t.NoBid }

// FullSetCost es el coste máximo de un set completo de un lado:
// 100 para YES, 100·(n-1) para NO.
func FullSetCost(side Side, n int) int {
	if side == SideNo {
		return MaxPriceCents * (n - 1)
	}
	return MaxPriceCents
}

// Submittable devuelve true si el precio está en el intervalo abierto (1, 100).
// Precio 1 no se envía aunque el guard lo haya aceptado.
func Submittable(priceCents int) bool {
	return priceCents > 1 && priceCents < MaxPriceCents
}
