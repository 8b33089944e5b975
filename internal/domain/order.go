package domain

import "github.com/google/uuid"

// Side es el lado del contrato.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Valid devuelve true si el lado es yes o no.
func (s Side) Valid() bool {
	return s == SideYes || s == SideNo
}

// Action es la dirección de la orden.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Valid devuelve true si la acción es buy o sell.
func (a Action) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// Quote indica qué cotización se lee: ask para comprar, bid para vender.
type Quote string

const (
	QuoteAsk Quote = "ask"
	QuoteBid Quote = "bid"
)

// QuoteFor devuelve la cotización contra la que se ejecuta una acción.
// ok es false si la acción no es válida.
func QuoteFor(a Action) (q Quote, ok bool) {
	switch a {
	case ActionBuy:
		return QuoteAsk, true
	case ActionSell:
		return QuoteBid, true
	default:
		return "", false
	}
}

// OrderCount es el tamaño fijo de cada leg: un contrato.
const OrderCount = 1

// Order es una orden límite transitoria de un contrato sobre un mercado.
// Se crea, se envía una sola vez y se descarta.
type Order struct {
	ClientOrderID string
	MarketTicker  string
	Action        Action
	Side          Side
	PriceCents    int
	Count         int
}

// NewOrder crea una orden de un lote con un client_order_id único.
func NewOrder(marketTicker string, action Action, side Side, priceCents int) Order {
	return Order{
		ClientOrderID: uuid.NewString(),
		MarketTicker:  marketTicker,
		Action:        action,
		Side:          side,
		PriceCents:    priceCents,
		Count:         OrderCount,
	}
}

// PlacedOrder es la respuesta del exchange para una orden aceptada.
type PlacedOrder struct {
	OrderID       string
	ClientOrderID string
	Status        string // resting | executed | canceled | pending
}
