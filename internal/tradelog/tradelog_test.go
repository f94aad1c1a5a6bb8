package tradelog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestRecorderWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	entries := []TradeEntry{
		{Day: "2024-01-02", Ticker: "AAPL", Action: "BUY", Requested: 100, Executed: 100, Price: "100", CashDelta: "-10000"},
		{Day: "2024-01-03", Ticker: "AAPL", Action: "SELL", Requested: 100, Executed: 100, Price: "110", CashDelta: "11000"},
	}
	for _, e := range entries {
		if err := r.Trade(e); err != nil {
			t.Fatalf("Trade: %v", err)
		}
	}
	if err := r.Decision(DecisionEntry{Day: "2024-01-02", Ticker: "AAPL", Stance: "BULLISH", Confidence: 80}); err != nil {
		t.Fatalf("Decision: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "trades.jsonl"))
	if err != nil {
		t.Fatalf("open trades: %v", err)
	}
	defer f.Close()

	var got []TradeEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e TradeEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 trade lines, got %d", len(got))
	}
	if got[1].Action != "SELL" || got[1].CashDelta != "11000" {
		t.Errorf("unexpected second entry: %+v", got[1])
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	if err := r.Trade(TradeEntry{}); err != nil {
		t.Errorf("nil Trade: %v", err)
	}
	if err := r.Decision(DecisionEntry{}); err != nil {
		t.Errorf("nil Decision: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}
