package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
start_date: "2024-01-01"
end_date: "2024-06-30"
tickers: [MSFT, AAPL]
data:
  source: CSV
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.InitialCash != 100000 {
		t.Errorf("initial cash = %v, want default 100000", cfg.InitialCash)
	}
	if cfg.MaxPositionFraction != 0.20 {
		t.Errorf("max position fraction = %v, want 0.20", cfg.MaxPositionFraction)
	}
	if cfg.Policy.ConfidenceThreshold != 60 {
		t.Errorf("confidence threshold = %v, want 60", cfg.Policy.ConfidenceThreshold)
	}
	if !cfg.Analysts.Technical || !cfg.Analysts.Momentum {
		t.Error("expected default analysts enabled")
	}
	// Tickers sorted for deterministic iteration.
	if cfg.Tickers[0] != "AAPL" || cfg.Tickers[1] != "MSFT" {
		t.Errorf("tickers = %v, want sorted", cfg.Tickers)
	}
}

func TestLoadConfigRejectsBadSource(t *testing.T) {
	path := writeConfig(t, `
start_date: "2024-01-01"
end_date: "2024-06-30"
tickers: [AAPL]
data:
  source: SQLITE
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown data source")
	}
}

func TestLoadConfigRejectsInvertedDates(t *testing.T) {
	path := writeConfig(t, `
start_date: "2024-06-30"
end_date: "2024-01-01"
tickers: [AAPL]
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestLoadConfigRejectsEmptyTickers(t *testing.T) {
	path := writeConfig(t, `
start_date: "2024-01-01"
end_date: "2024-06-30"
tickers: []
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for empty tickers")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
