package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/kalshiarb/internal/domain"
)

// Config es la configuración completa del bot. Se carga una vez al arrancar
// y no cambia durante la sesión.
type Config struct {
	Trade      TradeConfig      `yaml:"trade"`
	Events     []string         `yaml:"events"`
	API        APIConfig        `yaml:"api"`
	DryRun     DryRunConfig     `yaml:"dry_run"`
	Storage    StorageConfig    `yaml:"storage"`
	AnomalyLog AnomalyLogConfig `yaml:"anomaly_log"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// TradeConfig son los parámetros de trading, en centavos.
type TradeConfig struct {
	MinBalanceCents int `yaml:"min_balance_cents"` // saldo a conservar en la cuenta
	MarginCents     int `yaml:"margin_cents"`      // desviación mínima por set respecto a 100
}

// APIConfig controla el acceso a la API REST de Kalshi.
type APIConfig struct {
	BaseURL        string  `yaml:"base_url"`
	KeyID          string  `yaml:"key_id"`
	PrivateKeyPath string  `yaml:"private_key_path"`
	RateLimitPerS  float64 `yaml:"rate_limit_per_sec"` // 0 = sin límite
	Burst          int     `yaml:"burst"`
	MaxRetries     int     `yaml:"max_retries"` // solo lecturas; las órdenes nunca se reintentan

	MarketDataTimeoutMs int `yaml:"market_data_timeout_ms"`
	BalanceTimeoutMs    int `yaml:"balance_timeout_ms"`
	OrderTimeoutMs      int `yaml:"order_timeout_ms"`
}

// DryRunConfig activa la cuenta simulada: las órdenes no se envían.
type DryRunConfig struct {
	Enabled           bool `yaml:"enabled"`
	StartBalanceCents int  `yaml:"start_balance_cents"`
}

// StorageConfig controla dónde se persiste el journal de sweeps.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, ":memory:", o vacío para desactivar
}

// AnomalyLogConfig controla el fichero de respuestas malformadas.
type AnomalyLogConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
	File   string `yaml:"file"`   // opcional: copia rotada del log en disco
}

// MetricsConfig controla el servidor de métricas Prometheus.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // vacío = desactivado
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Validate comprueba los límites de los parámetros. Devuelve *domain.ConfigError.
func (c *Config) Validate() error {
	if c.Trade.MarginCents < 0 || c.Trade.MarginCents > domain.MaxPriceCents {
		return &domain.ConfigError{Field: "trade.margin_cents", Err: fmt.Errorf("must be in [0, %d], got %d", domain.MaxPriceCents, c.Trade.MarginCents)}
	}
	if c.Trade.MinBalanceCents < 0 {
		return &domain.ConfigError{Field: "trade.min_balance_cents", Err: fmt.Errorf("must be >= 0, got %d", c.Trade.MinBalanceCents)}
	}
	if len(c.Events) == 0 {
		return &domain.ConfigError{Field: "events", Err: errors.New("at least one event ticker is required")}
	}
	for i, e := range c.Events {
		if strings.TrimSpace(e) == "" {
			return &domain.ConfigError{Field: fmt.Sprintf("events[%d]", i), Err: errors.New("empty event ticker")}
		}
	}
	if c.API.MaxRetries < 0 {
		return &domain.ConfigError{Field: "api.max_retries", Err: fmt.Errorf("must be >= 0, got %d", c.API.MaxRetries)}
	}
	if c.API.RateLimitPerS < 0 {
		return &domain.ConfigError{Field: "api.rate_limit_per_sec", Err: fmt.Errorf("must be >= 0, got %g", c.API.RateLimitPerS)}
	}
	if !c.DryRun.Enabled && (c.API.KeyID == "" || c.API.PrivateKeyPath == "") {
		return &domain.ConfigError{Field: "api.key_id", Err: domain.ErrMissingCredentials}
	}
	return nil
}

// SetEvents reemplaza la lista de eventos desde una lista separada por comas.
func (c *Config) SetEvents(csv string) {
	var events []string
	for _, e := range strings.Split(csv, ",") {
		if e = strings.TrimSpace(e); e != "" {
			events = append(events, e)
		}
	}
	c.Events = events
}

// Timeouts devuelve los plazos por operación como time.Duration.
func (a APIConfig) Timeouts() (marketData, balance, order time.Duration) {
	return time.Duration(a.MarketDataTimeoutMs) * time.Millisecond,
		time.Duration(a.BalanceTimeoutMs) * time.Millisecond,
		time.Duration(a.OrderTimeoutMs) * time.Millisecond
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KALSHI_API_KEY_ID"); v != "" {
		cfg.API.KeyID = v
	}
	if v := os.Getenv("KALSHI_PRIVATE_KEY_PATH"); v != "" {
		cfg.API.PrivateKeyPath = v
	}
	if v := os.Getenv("KALSHI_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.elections.kalshi.com/trade-api/v2"
	}
	if cfg.API.Burst <= 0 {
		cfg.API.Burst = 1
	}
	if cfg.API.MarketDataTimeoutMs <= 0 {
		cfg.API.MarketDataTimeoutMs = 10_000
	}
	if cfg.API.BalanceTimeoutMs <= 0 {
		cfg.API.BalanceTimeoutMs = 5_000
	}
	if cfg.API.OrderTimeoutMs <= 0 {
		cfg.API.OrderTimeoutMs = 10_000
	}
	if cfg.DryRun.StartBalanceCents <= 0 {
		cfg.DryRun.StartBalanceCents = 100_000 // $1000
	}
	if cfg.AnomalyLog.Path == "" {
		cfg.AnomalyLog.Path = "trade_log.txt"
	}
	if cfg.AnomalyLog.MaxSizeMB <= 0 {
		cfg.AnomalyLog.MaxSizeMB = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
