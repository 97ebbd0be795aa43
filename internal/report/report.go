// Package report writes batch solve results to disk as JSON and CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contactkeval/iv-solver/internal/solver"
)

// Result pairs a quote with its solve outcome. Error carries the failure text
// for quotes that were rejected or degenerate; Estimate is zero in that case.
type Result struct {
	Quote    solver.OptionQuote        `json:"quote"`
	Estimate solver.VolatilityEstimate `json:"estimate"`
	Error    string                    `json:"error,omitempty"`
}

// WriteJSON writes all results to implied_vols.json in outdir.
func WriteJSON(results []Result, outdir string) error {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "implied_vols.json"), b, 0644)
}

// WriteCSV writes all results to implied_vols.csv in outdir, one row per quote.
func WriteCSV(results []Result, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "implied_vols.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"type", "underlying_price", "strike_price", "expiry_years", "rate", "dividend_yield", "market_price", "sigma", "iterations", "price_error", "converged", "method", "error"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, res := range results {
		q, e := res.Quote, res.Estimate
		row := []string{
			string(q.Type),
			fmt.Sprintf("%.4f", q.UnderlyingPrice),
			fmt.Sprintf("%.4f", q.StrikePrice),
			fmt.Sprintf("%.6f", q.TimeToExpiry),
			fmt.Sprintf("%.4f", q.RiskFreeRate),
			fmt.Sprintf("%.4f", q.DividendYield),
			fmt.Sprintf("%.4f", q.MarketPrice),
			fmt.Sprintf("%.6f", e.Sigma),
			fmt.Sprintf("%d", e.Iterations),
			fmt.Sprintf("%.2e", e.PriceError),
			fmt.Sprintf("%t", e.Converged),
			e.Method,
			res.Error,
		}
		_ = w.Write(row)
	}
	return nil
}
