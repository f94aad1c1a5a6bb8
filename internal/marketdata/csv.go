package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/types"
)

const csvDateLayout = "2006-01-02"

// CSVProvider serves candles from local files, one file per ticker at
// <dir>/<TICKER>.csv with columns date,open,high,low,close,volume.
// The offline source of choice for reproducible runs.
type CSVProvider struct {
	dir string
}

var _ interfaces.PriceProvider = (*CSVProvider)(nil)

func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir}
}

func (p *CSVProvider) GetPrices(_ context.Context, ticker string, start, end time.Time) ([]types.Candle, error) {
	path := filepath.Join(p.dir, ticker+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candle file for %s: %w", ticker, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read candle file for %s: %w", ticker, err)
	}

	candles := make([]types.Candle, 0, len(rows))
	for i, row := range rows {
		if i == 0 && row[0] == "date" {
			continue // header
		}
		candle, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		if candle.Date.Before(start) || candle.Date.After(end) {
			continue
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func parseRow(row []string) (types.Candle, error) {
	if len(row) < 6 {
		return types.Candle{}, fmt.Errorf("expected 6 columns, got %d", len(row))
	}
	date, err := time.Parse(csvDateLayout, row[0])
	if err != nil {
		return types.Candle{}, err
	}
	fields := make([]decimal.Decimal, 4)
	for i := 0; i < 4; i++ {
		fields[i], err = decimal.NewFromString(row[i+1])
		if err != nil {
			return types.Candle{}, err
		}
	}
	volume, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return types.Candle{}, err
	}
	return types.Candle{
		Date:   date.UTC(),
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: volume,
	}, nil
}
