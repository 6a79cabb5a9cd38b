package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable parameter of the controller. All percentage
// fields are expressed in percent points (3 = 3%), matching the thresholds
// the strategies compare against.
type Config struct {
	// Exchange credentials
	APIKey    string
	APISecret string

	// Assets traded against the quote currency, base symbols only ("SOL").
	Assets     []string
	QuoteAsset string // e.g. "USDT"

	// Cycle cadence
	PollInterval time.Duration // default 10s

	// Percentage-breakout thresholds (variant A)
	SellThresholdPct  float64 // e.g. 3 – sell once variation reaches this
	RebuyThresholdPct float64 // e.g. -5 – rebuy once variation drops to this
	ResetThresholdPct float64 // e.g. 2.3 – re-anchor base with no position

	// Trailing-stop thresholds (variant B)
	TrailingStopPct    float64 // e.g. 1.5 – stop distance under current price
	OscillatorPeriod   int     // e.g. 14
	OscillatorOversold float64 // e.g. 35 – entries allowed below this
	HistoryWindow      int     // e.g. 100 closes kept per asset
	HistoryInterval    string  // kline interval used to seed the window

	// Sizing
	MaxQuotePerOrder float64 // per-operation cap in quote currency
	DustValueFloor   float64 // position value below this counts as flat (variant A)
	DustQtyFloor     float64 // position quantity below this counts as flat (variant B)

	// Durable state
	StatePath string

	// Strategy selects the decision engine: "breakout" (percentage
	// breakout) or "trailing" (trailing stop + momentum).
	Strategy string
}

// Default returns the configuration the controller ships with. Credentials
// are always taken from the environment.
func Default() Config {
	return Config{
		Assets:             []string{"RENDER", "NEAR", "SOL", "DOT", "ARB", "AVAX", "LINK", "INJ", "STX", "AAVE"},
		QuoteAsset:         "USDT",
		PollInterval:       10 * time.Second,
		SellThresholdPct:   3,
		RebuyThresholdPct:  -5,
		ResetThresholdPct:  2.3,
		TrailingStopPct:    1.5,
		OscillatorPeriod:   14,
		OscillatorOversold: 35,
		HistoryWindow:      100,
		HistoryInterval:    "1h",
		MaxQuotePerOrder:   100,
		DustValueFloor:     5,
		DustQtyFloor:       0.01,
		StatePath:          "estado_trading.json",
		Strategy:           StrategyTrailing,
	}
}

// Strategy selector values.
const (
	StrategyBreakout = "breakout"
	StrategyTrailing = "trailing"
)

// Load builds the runtime configuration: defaults, then .env / environment
// overrides. Missing .env files are fine; credentials may still come from
// the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	cfg.APIKey = os.Getenv("API_KEY")
	cfg.APISecret = os.Getenv("API_SECRET")

	if v := os.Getenv("ASSETS"); v != "" {
		parts := strings.Split(v, ",")
		assets := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				assets = append(assets, strings.ToUpper(p))
			}
		}
		cfg.Assets = assets
	}
	if v := os.Getenv("QUOTE_ASSET"); v != "" {
		cfg.QuoteAsset = strings.ToUpper(v)
	}
	if v := os.Getenv("STATE_PATH"); v != "" {
		cfg.StatePath = v
	}
	if v := os.Getenv("STRATEGY"); v != "" {
		cfg.Strategy = strings.ToLower(v)
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid POLL_INTERVAL %q: %w", v, err)
		}
		cfg.PollInterval = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that all fields are within sensible bounds. It returns
// the first encountered error, allowing the caller to surface a clear
// configuration problem before any trading starts.
func (c *Config) Validate() error {
	if len(c.Assets) == 0 {
		return errors.New("at least one asset must be configured")
	}
	for _, a := range c.Assets {
		if a == "" {
			return errors.New("asset symbols cannot be empty")
		}
	}
	if c.QuoteAsset == "" {
		return errors.New("quote asset must be set")
	}
	if c.PollInterval <= 0 {
		return errors.New("PollInterval must be positive")
	}
	if c.SellThresholdPct <= 0 {
		return fmt.Errorf("SellThresholdPct (%f) must be positive", c.SellThresholdPct)
	}
	if c.RebuyThresholdPct >= 0 {
		return fmt.Errorf("RebuyThresholdPct (%f) must be negative", c.RebuyThresholdPct)
	}
	if c.ResetThresholdPct <= 0 {
		return fmt.Errorf("ResetThresholdPct (%f) must be positive", c.ResetThresholdPct)
	}
	if c.TrailingStopPct <= 0 || c.TrailingStopPct >= 100 {
		return fmt.Errorf("TrailingStopPct (%f) must be between 0 and 100", c.TrailingStopPct)
	}
	if c.OscillatorPeriod <= 0 {
		return errors.New("OscillatorPeriod must be positive")
	}
	if c.OscillatorOversold <= 0 || c.OscillatorOversold >= 100 {
		return fmt.Errorf("OscillatorOversold (%f) must be between 0 and 100", c.OscillatorOversold)
	}
	if c.HistoryWindow <= c.OscillatorPeriod {
		return fmt.Errorf("HistoryWindow (%d) must exceed OscillatorPeriod (%d)", c.HistoryWindow, c.OscillatorPeriod)
	}
	if c.HistoryInterval == "" {
		return errors.New("HistoryInterval must be set")
	}
	if c.MaxQuotePerOrder <= 0 {
		return errors.New("MaxQuotePerOrder must be positive")
	}
	if c.DustValueFloor < 0 {
		return errors.New("DustValueFloor cannot be negative")
	}
	if c.DustQtyFloor < 0 {
		return errors.New("DustQtyFloor cannot be negative")
	}
	if c.StatePath == "" {
		return errors.New("StatePath must be set")
	}
	if c.Strategy != StrategyBreakout && c.Strategy != StrategyTrailing {
		return fmt.Errorf("Strategy must be %q or %q, got %q", StrategyBreakout, StrategyTrailing, c.Strategy)
	}
	return nil
}
