package solver

import (
	"fmt"
	"math"
)

// OptionType distinguishes calls from puts.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// IsCall reports whether the type is a call.
func (t OptionType) IsCall() bool { return t == Call }

// OptionQuote describes one observed option price with the contract and market
// parameters needed to invert the Black-Scholes formula.
type OptionQuote struct {
	Type            OptionType `json:"type" binding:"required"`
	UnderlyingPrice float64    `json:"underlying_price" binding:"required,gt=0"` // S
	StrikePrice     float64    `json:"strike_price" binding:"required,gt=0"`     // K
	TimeToExpiry    float64    `json:"expiry_years" binding:"required,gt=0"`     // T, in years
	RiskFreeRate    float64    `json:"rate"`                                     // r, annual
	DividendYield   float64    `json:"dividend_yield"`                           // q, annual
	MarketPrice     float64    `json:"market_price" binding:"required,gt=0"`
}

// VolatilityEstimate is the outcome of one solve: the volatility reached, how
// much work it took, and whether the pricing error fell within tolerance.
// A non-converged estimate still carries the last sigma for diagnostics.
type VolatilityEstimate struct {
	Sigma      float64 `json:"sigma"`
	Iterations int     `json:"iterations"`
	PriceError float64 `json:"price_error"`
	Converged  bool    `json:"converged"`
	Method     string  `json:"method"` // "newton" or "bisection"
}

// PriceBounds returns the (lower, upper) no-arbitrage bounds for the quote's
// market price under continuous discounting:
//
//	Call:  lower = max(0, S·e^{-qT} - K·e^{-rT}), upper = S·e^{-qT}
//	Put :  lower = max(0, K·e^{-rT} - S·e^{-qT}), upper = K·e^{-rT}
func (q OptionQuote) PriceBounds() (lower, upper float64) {
	dfR := math.Exp(-q.RiskFreeRate * q.TimeToExpiry)
	dfQ := math.Exp(-q.DividendYield * q.TimeToExpiry)
	if q.Type.IsCall() {
		return math.Max(0, q.UnderlyingPrice*dfQ-q.StrikePrice*dfR), q.UnderlyingPrice * dfQ
	}
	return math.Max(0, q.StrikePrice*dfR-q.UnderlyingPrice*dfQ), q.StrikePrice * dfR
}

// Validate rejects quotes the solver is undefined for: non-positive contract
// parameters and market prices outside the no-arbitrage band. Newton iteration
// on such inputs cannot reach a meaningful volatility, so they are refused
// before the first step.
func (q OptionQuote) Validate() error {
	if q.Type != Call && q.Type != Put {
		return fmt.Errorf("%w: option type must be %q or %q, got %q", ErrInvalidInput, Call, Put, q.Type)
	}
	if q.UnderlyingPrice <= 0 {
		return fmt.Errorf("%w: underlying price %g must be positive", ErrInvalidInput, q.UnderlyingPrice)
	}
	if q.StrikePrice <= 0 {
		return fmt.Errorf("%w: strike price %g must be positive", ErrInvalidInput, q.StrikePrice)
	}
	if q.TimeToExpiry <= 0 {
		return fmt.Errorf("%w: time to expiry %g must be positive", ErrInvalidInput, q.TimeToExpiry)
	}
	lower, upper := q.PriceBounds()
	if q.MarketPrice < lower || q.MarketPrice >= upper {
		return fmt.Errorf("%w: market price %g outside no-arbitrage bounds [%g, %g)",
			ErrInvalidInput, q.MarketPrice, lower, upper)
	}
	return nil
}
