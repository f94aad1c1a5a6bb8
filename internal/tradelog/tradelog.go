package tradelog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"llm-hedge-fund/internal/types"
)

// TradeEntry is one journaled order outcome, keyed by simulated day.
type TradeEntry struct {
	Day       string  `json:"day"`
	Ticker    string  `json:"ticker"`
	Action    string  `json:"action"`
	Requested int64   `json:"requested"`
	Executed  int64   `json:"executed"`
	Price     string  `json:"price"`
	CashDelta string  `json:"cash_delta"`
	Note      string  `json:"note,omitempty"`
}

// DecisionEntry is one journaled per-ticker consensus.
type DecisionEntry struct {
	Day        string              `json:"day"`
	Ticker     string              `json:"ticker"`
	Stance     string              `json:"stance"`
	Confidence float64             `json:"confidence"`
	Agents     []types.AgentSignal `json:"agents,omitempty"`
}

// Recorder journals trades and decisions as JSONL under a run directory.
// A nil Recorder is a no-op, so the engine can run without a journal.
type Recorder struct {
	mu        sync.Mutex
	trades    *os.File
	decisions *os.File
}

// NewRecorder creates the run directory and opens the journal files.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	trades, err := os.OpenFile(filepath.Join(dir, "trades.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	decisions, err := os.OpenFile(filepath.Join(dir, "decisions.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		trades.Close()
		return nil, err
	}
	return &Recorder{trades: trades, decisions: decisions}, nil
}

// Trade appends one trade entry.
func (r *Recorder) Trade(e TradeEntry) error {
	if r == nil {
		return nil
	}
	return r.append(r.trades, e)
}

// Decision appends one decision entry.
func (r *Recorder) Decision(e DecisionEntry) error {
	if r == nil {
		return nil
	}
	return r.append(r.decisions, e)
}

func (r *Recorder) append(f *os.File, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// Close flushes and closes the journal files.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.trades.Close()
	if cerr := r.decisions.Close(); err == nil {
		err = cerr
	}
	return err
}
