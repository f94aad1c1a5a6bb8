package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"llm-hedge-fund/internal/types"
)

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "results"))

	result := &types.BacktestResult{
		Valuations: []types.DailyValuation{
			{
				Date:           time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				Cash:           decimal.NewFromInt(90000),
				PositionsValue: decimal.NewFromInt(10000),
				TotalValue:     decimal.NewFromInt(100000),
			},
			{
				Date:           time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
				Cash:           decimal.NewFromInt(90000),
				PositionsValue: decimal.NewFromInt(11000),
				TotalValue:     decimal.NewFromInt(101000),
			},
		},
		Report: types.PerformanceReport{
			TotalReturn:  0.01,
			TradingDays:  2,
			InitialValue: 100000,
			FinalValue:   101000,
		},
	}

	paths, err := w.WriteAll(result)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(paths))
	}

	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatalf("open valuations: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read valuations: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "2024-01-02" || rows[1][4] != "100000.00" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][4] != "101000.00" {
		t.Errorf("unexpected second row: %v", rows[2])
	}

	data, err := os.ReadFile(paths[1])
	if err != nil {
		t.Fatalf("read performance: %v", err)
	}
	var got types.PerformanceReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal performance: %v", err)
	}
	if got.FinalValue != 101000 {
		t.Errorf("final value = %v, want 101000", got.FinalValue)
	}
}
