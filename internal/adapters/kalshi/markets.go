package kalshi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

const (
	opFetchMarkets = "kalshi.FetchEventMarkets"

	// maxPages corta la paginación si el exchange devuelve cursores sin fin.
	maxPages = 50
)

var errMissingMarkets = errors.New(`missing "markets" field`)

// FetchEventMarkets devuelve los mercados abiertos de un evento, en el orden
// en que los devuelve el exchange. Sigue el cursor de paginación.
// Un body sin "markets" o que no decodifica es un MalformedResponseError con
// el payload crudo.
func (c *Client) FetchEventMarkets(ctx context.Context, eventTicker string) ([]domain.Market, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.MarketData)
	defer cancel()

	var (
		markets []domain.Market
		cursor  string
	)
	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		q.Set("event_ticker", eventTicker)
		q.Set("status", "open")
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		body, err := c.get(ctx, opFetchMarkets, "/markets?"+q.Encode())
		if err != nil {
			return nil, fmt.Errorf("kalshi.FetchEventMarkets %s: %w", eventTicker, err)
		}

		resp, err := decodeMarkets(body)
		if err != nil {
			return nil, fmt.Errorf("kalshi.FetchEventMarkets %s: %w", eventTicker, err)
		}

		for _, m := range *resp.Markets {
			markets = append(markets, toMarket(m))
		}

		if resp.Cursor == "" || len(*resp.Markets) == 0 {
			return markets, nil
		}
		cursor = resp.Cursor
	}
	// lista incompleta: las sumas del evento no serían válidas
	return nil, fmt.Errorf("kalshi.FetchEventMarkets %s: %w", eventTicker, &domain.MalformedResponseError{
		Op:  opFetchMarkets,
		Err: fmt.Errorf("cursor still pending after %d pages", maxPages),
	})
}

func decodeMarkets(body []byte) (apiMarketsResponse, error) {
	var resp apiMarketsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, &domain.MalformedResponseError{Op: opFetchMarkets, Raw: body, Err: err}
	}
	if resp.Markets == nil {
		return resp, &domain.MalformedResponseError{Op: opFetchMarkets, Raw: body, Err: errMissingMarkets}
	}
	return resp, nil
}
