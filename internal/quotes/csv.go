// Package quotes loads option quotes from local CSV files for batch solving.
package quotes

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/contactkeval/iv-solver/internal/logger"
	"github.com/contactkeval/iv-solver/internal/solver"
)

// Expected column order. A header row matching the first column name is
// detected and skipped.
//
//	type,underlying_price,strike_price,expiry_years,rate,dividend_yield,market_price
const columns = 7

// LoadCSV reads a quote file and returns the quotes that parsed cleanly.
// Malformed rows are logged and skipped rather than failing the whole batch,
// so one bad line does not sink a large input file.
func LoadCSV(path string) ([]solver.OptionQuote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // validated per row below

	var out []solver.OptionQuote
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read quotes file %s: %w", path, err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "type") {
			continue // header
		}

		q, err := parseRow(rec)
		if err != nil {
			logger.Debugf("skipping %s line %d: %v", path, line, err)
			continue
		}
		out = append(out, q)
	}

	logger.Infof("loaded %d quotes from %s", len(out), path)
	return out, nil
}

func parseRow(rec []string) (solver.OptionQuote, error) {
	var q solver.OptionQuote

	if len(rec) != columns {
		return q, fmt.Errorf("expected %d fields, got %d", columns, len(rec))
	}

	typ := solver.OptionType(strings.ToLower(strings.TrimSpace(rec[0])))
	if typ != solver.Call && typ != solver.Put {
		return q, fmt.Errorf("unknown option type %q", rec[0])
	}

	vals := make([]float64, columns-1)
	for i := 1; i < columns; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return q, fmt.Errorf("field %d: %w", i, err)
		}
		vals[i-1] = v
	}

	q = solver.OptionQuote{
		Type:            typ,
		UnderlyingPrice: vals[0],
		StrikePrice:     vals[1],
		TimeToExpiry:    vals[2],
		RiskFreeRate:    vals[3],
		DividendYield:   vals[4],
		MarketPrice:     vals[5],
	}
	return q, nil
}
