package quotes_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/contactkeval/iv-solver/internal/quotes"
	"github.com/contactkeval/iv-solver/internal/solver"
)

func writeQuoteFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quotes.csv")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing quote file: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeQuoteFile(t,
		"type,underlying_price,strike_price,expiry_years,rate,dividend_yield,market_price\n"+
			"call,100,100,1,0.05,0,10.4506\n"+
			"put,100,110,0.5,0.03,0.01,12.25\n")

	qs, err := quotes.LoadCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(qs))
	}

	if qs[0].Type != solver.Call || qs[0].UnderlyingPrice != 100 || qs[0].MarketPrice != 10.4506 {
		t.Fatalf("first quote parsed wrong: %+v", qs[0])
	}
	if qs[1].Type != solver.Put || qs[1].DividendYield != 0.01 || qs[1].TimeToExpiry != 0.5 {
		t.Fatalf("second quote parsed wrong: %+v", qs[1])
	}
}

// One malformed row must not sink the batch.
func TestLoadCSVSkipsBadRows(t *testing.T) {
	path := writeQuoteFile(t,
		"call,100,100,1,0.05,0,10.4506\n"+
			"straddle,100,100,1,0.05,0,10.45\n"+
			"put,100,abc,1,0.05,0,5.57\n"+
			"put,100,100,1,0.05,0,5.5735\n")

	qs, err := quotes.LoadCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 good quotes, got %d", len(qs))
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	if _, err := quotes.LoadCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
