package kalshi

import "github.com/alejandrodnm/kalshiarb/internal/domain"

// toMarket convierte un apiMarket al modelo de dominio.
func toMarket(m apiMarket) domain.Market {
	return domain.Market{
		Ticker:      m.Ticker,
		EventTicker: m.EventTicker,
		Title:       m.Title,
		Status:      domain.MarketStatus(m.Status),
		YesAsk:      m.YesAsk,
		YesBid:      m.YesBid,
		NoAsk:       m.NoAsk,
		NoBid:       m.NoBid,
	}
}

// toOrderRequest construye el body de una orden límite. El precio va en
// yes_price o no_price según el lado.
func toOrderRequest(o domain.Order) apiOrderRequest {
	req := apiOrderRequest{
		Ticker:        o.MarketTicker,
		ClientOrderID: o.ClientOrderID,
		Action:        string(o.Action),
		Side:          string(o.Side),
		Count:         o.Count,
		Type:          "limit",
	}
	price := o.PriceCents
	if o.Side == domain.SideYes {
		req.YesPrice = &price
	} else {
		req.NoPrice = &price
	}
	return req
}
