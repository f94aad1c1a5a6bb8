package store

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

type Config struct {
	InitialCash         float64  `yaml:"initial_cash"`
	MaxPositionFraction float64  `yaml:"max_position_fraction"`
	MarginRatio         float64  `yaml:"margin_ratio"`
	StartDate           string   `yaml:"start_date"`
	EndDate             string   `yaml:"end_date"`
	Tickers             []string `yaml:"tickers"`

	Data struct {
		Source       string `yaml:"source"` // CSV, YAHOO or KITE
		Dir          string `yaml:"dir"`    // candle directory for CSV source
		CacheEntries int    `yaml:"cache_entries"`
	} `yaml:"data"`

	Policy struct {
		ConfidenceThreshold float64 `yaml:"confidence_threshold"`
		OrderFraction       float64 `yaml:"order_fraction"`
		AllowShort          bool    `yaml:"allow_short"`
	} `yaml:"policy"`

	Analysts struct {
		Technical      bool `yaml:"technical"`
		Momentum       bool `yaml:"momentum"`
		Sentiment      bool `yaml:"sentiment"`
		MomentumWindow int  `yaml:"momentum_window"`
		RSIPeriod      int  `yaml:"rsi_period"`
		SMAFast        int  `yaml:"sma_fast"`
		SMASlow        int  `yaml:"sma_slow"`
	} `yaml:"analysts"`

	Report struct {
		Dir string `yaml:"dir"`
	} `yaml:"report"`
}

func (c *Config) Validate() error {
	if c.InitialCash <= 0 {
		return fmt.Errorf("initial_cash must be positive, got %.2f", c.InitialCash)
	}
	if c.MaxPositionFraction <= 0 || c.MaxPositionFraction > 1 {
		return fmt.Errorf("max_position_fraction must be in (0, 1], got %.4f", c.MaxPositionFraction)
	}
	if c.MarginRatio < 0 || c.MarginRatio > 1 {
		return fmt.Errorf("margin_ratio must be in [0, 1], got %.4f", c.MarginRatio)
	}
	if len(c.Tickers) == 0 {
		return errors.New("tickers cannot be empty")
	}
	start, err := c.Start()
	if err != nil {
		return fmt.Errorf("invalid start_date '%s': %w", c.StartDate, err)
	}
	end, err := c.End()
	if err != nil {
		return fmt.Errorf("invalid end_date '%s': %w", c.EndDate, err)
	}
	if end.Before(start) {
		return fmt.Errorf("end_date %s is before start_date %s", c.EndDate, c.StartDate)
	}
	switch c.Data.Source {
	case "CSV", "YAHOO", "KITE":
	default:
		return fmt.Errorf("data.source must be 'CSV', 'YAHOO' or 'KITE', got '%s'", c.Data.Source)
	}
	if c.Policy.ConfidenceThreshold < 0 || c.Policy.ConfidenceThreshold > 100 {
		return fmt.Errorf("policy.confidence_threshold must be 0-100, got %.2f", c.Policy.ConfidenceThreshold)
	}
	if c.Policy.OrderFraction <= 0 || c.Policy.OrderFraction > 1 {
		return fmt.Errorf("policy.order_fraction must be in (0, 1], got %.4f", c.Policy.OrderFraction)
	}
	return nil
}

func (c *Config) Start() (time.Time, error) {
	return time.Parse(dateLayout, c.StartDate)
}

func (c *Config) End() (time.Time, error) {
	return time.Parse(dateLayout, c.EndDate)
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.InitialCash == 0 {
		c.InitialCash = 100000
	}
	if c.MaxPositionFraction == 0 {
		c.MaxPositionFraction = 0.20
	}
	if c.MarginRatio == 0 {
		c.MarginRatio = 0.5
	}
	if c.Data.Source == "" {
		c.Data.Source = "CSV"
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Data.CacheEntries == 0 {
		c.Data.CacheEntries = 64
	}
	if c.Policy.ConfidenceThreshold == 0 {
		c.Policy.ConfidenceThreshold = 60
	}
	if c.Policy.OrderFraction == 0 {
		c.Policy.OrderFraction = 0.10
	}
	if c.Analysts.MomentumWindow == 0 {
		c.Analysts.MomentumWindow = 20
	}
	if c.Analysts.RSIPeriod == 0 {
		c.Analysts.RSIPeriod = 14
	}
	if c.Analysts.SMAFast == 0 {
		c.Analysts.SMAFast = 20
	}
	if c.Analysts.SMASlow == 0 {
		c.Analysts.SMASlow = 50
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "results"
	}
	// Run every reference analyst unless the section was configured.
	if !c.Analysts.Technical && !c.Analysts.Momentum && !c.Analysts.Sentiment {
		c.Analysts.Technical = true
		c.Analysts.Momentum = true
	}
	sort.Strings(c.Tickers)
}
