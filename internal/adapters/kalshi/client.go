package kalshi

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

const (
	// DefaultBaseURL es la raíz de la API REST v2 de producción.
	DefaultBaseURL = "https://api.elections.kalshi.com/trade-api/v2"

	defaultTimeout = 10 * time.Second
	baseRetryWait  = 500 * time.Millisecond
)

// Timeouts son los plazos por operación, aplicados como deadline del contexto.
type Timeouts struct {
	MarketData time.Duration
	Balance    time.Duration
	Order      time.Duration
}

// Options configura el Client. Los campos vacíos toman valores por defecto.
type Options struct {
	BaseURL    string
	KeyID      string
	PrivateKey *rsa.PrivateKey // nil = peticiones sin firmar (solo market data)

	// RatePerSec = 0 deja el limiter sin límite.
	RatePerSec float64
	Burst      int

	// MaxRetries aplica solo a lecturas (GET). Las órdenes nunca se reintentan.
	MaxRetries int

	Timeouts Timeouts
}

// Client es el HTTP client de Kalshi con firma RSA-PSS, rate limiting
// opcional y retries solo para lecturas.
type Client struct {
	http       *http.Client
	baseURL    string
	keyID      string
	key        *rsa.PrivateKey
	limiter    *rate.Limiter
	maxRetries int
	timeouts   Timeouts
}

// NewClient crea un Client con las opciones dadas.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	t := opts.Timeouts
	if t.MarketData <= 0 {
		t.MarketData = defaultTimeout
	}
	if t.Balance <= 0 {
		t.Balance = defaultTimeout
	}
	if t.Order <= 0 {
		t.Order = defaultTimeout
	}

	return &Client{
		// sin timeout global: cada operación lleva su propio deadline
		http:       &http.Client{},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		keyID:      opts.KeyID,
		key:        opts.PrivateKey,
		limiter:    rate.NewLimiter(limit, opts.Burst),
		maxRetries: opts.MaxRetries,
		timeouts:   t,
	}
}

// HasCredentials devuelve true si el client puede firmar peticiones.
func (c *Client) HasCredentials() bool {
	return c.key != nil && c.keyID != ""
}

// get hace un GET firmado (si hay clave) con retries y devuelve el body crudo.
func (c *Client) get(ctx context.Context, op, pathAndQuery string) ([]byte, error) {
	return c.doWithRetry(ctx, op, c.maxRetries, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathAndQuery, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
}

// post hace un POST JSON firmado, sin retries.
func (c *Client) post(ctx context.Context, op, path string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal body: %w", op, err)
	}
	return c.doWithRetry(ctx, op, 0, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
}

// doWithRetry ejecuta la petición con backoff exponencial hasta retries veces.
// Solo se reintentan fallos de red, 429 y 5xx.
func (c *Client) doWithRetry(ctx context.Context, op string, retries int, build func() (*http.Request, error)) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			c.sleep(ctx, attempt-1)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &domain.TransportError{Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("%s: build request: %w", op, err)
		}
		if c.HasCredentials() {
			if err := c.sign(req); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}

		body, err := c.do(op, req)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < retries {
			slog.Warn("kalshi request failed, retrying", "op", op, "attempt", attempt+1, "err", err)
		}
	}
	return nil, lastErr
}

// do envía la petición y clasifica el resultado en errores tipados.
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return nil, &domain.StatusError{Op: op, Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func retryable(err error) bool {
	if domain.IsTransport(err) {
		return true
	}
	var se *domain.StatusError
	return errors.As(err, &se) && se.Retryable()
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
