// Package report persists backtest output as files an operator can
// open directly: a CSV of daily valuations and a JSON performance
// summary.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"llm-hedge-fund/internal/types"
)

const dateLayout = "2006-01-02"

type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteAll writes the valuation curve and the performance summary,
// returning the paths written.
func (w *Writer) WriteAll(result *types.BacktestResult) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	valPath := filepath.Join(w.dir, "valuations.csv")
	if err := w.writeValuations(valPath, result.Valuations); err != nil {
		return nil, err
	}

	perfPath := filepath.Join(w.dir, "performance.json")
	if err := w.writePerformance(perfPath, result.Report); err != nil {
		return nil, err
	}

	return []string{valPath, perfPath}, nil
}

func (w *Writer) writeValuations(path string, valuations []types.DailyValuation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"date", "cash", "positions_value", "short_liability", "total_value"}); err != nil {
		return err
	}
	for _, v := range valuations {
		row := []string{
			v.Date.Format(dateLayout),
			v.Cash.StringFixed(2),
			v.PositionsValue.StringFixed(2),
			v.ShortLiability.StringFixed(2),
			v.TotalValue.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (w *Writer) writePerformance(path string, report types.PerformanceReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
