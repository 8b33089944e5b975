package kalshi

// --- DTOs de la API REST v2 ---

// apiMarket es un mercado tal como lo devuelve GET /markets.
// Los precios llegan en centavos enteros.
type apiMarket struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Status      string `json:"status"` // "active", "initialized", "closed", "settled"...
	YesAsk      int    `json:"yes_ask"`
	YesBid      int    `json:"yes_bid"`
	NoAsk       int    `json:"no_ask"`
	NoBid       int    `json:"no_bid"`
}

// apiMarketsResponse es la respuesta paginada de GET /markets.
// Markets es puntero para distinguir un campo ausente o null de una lista vacía.
type apiMarketsResponse struct {
	Markets *[]apiMarket `json:"markets"`
	Cursor  string       `json:"cursor"`
}

// apiBalanceResponse es la respuesta de GET /portfolio/balance.
type apiBalanceResponse struct {
	Balance *int `json:"balance"` // centavos
}

// apiOrderRequest es el body de POST /portfolio/orders.
type apiOrderRequest struct {
	Ticker        string `json:"ticker"`
	ClientOrderID string `json:"client_order_id"`
	Action        string `json:"action"`
	Side          string `json:"side"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
	YesPrice      *int   `json:"yes_price,omitempty"`
	NoPrice       *int   `json:"no_price,omitempty"`
}

// apiOrderResponse es la respuesta de POST /portfolio/orders.
type apiOrderResponse struct {
	Order struct {
		OrderID       string `json:"order_id"`
		ClientOrderID string `json:"client_order_id"`
		Ticker        string `json:"ticker"`
		Status        string `json:"status"` // "resting", "executed", "canceled", "pending"
	} `json:"order"`
}
