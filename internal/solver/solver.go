// Package solver recovers Black-Scholes implied volatility from observed
// option prices via Newton-Raphson iteration, with an optional bisection
// fallback for contracts where the Newton step is unstable.
//
// All functions are pure: no shared state, safe for concurrent callers.
package solver

import (
	"errors"
	"math"

	"github.com/contactkeval/iv-solver/internal/logger"
	"github.com/contactkeval/iv-solver/internal/pricing"
)

var (
	// ErrInvalidInput marks quotes the solver is undefined for; detected
	// before iteration begins.
	ErrInvalidInput = errors.New("invalid quote")

	// ErrDegenerateVega marks a solve aborted mid-iteration because vega
	// collapsed below epsilon: the Newton step itself is undefined, which
	// is distinct from merely running out of iterations.
	ErrDegenerateVega = errors.New("vega degenerate, newton step undefined")
)

// Params controls the iteration. The defaults are reasonable for equity
// options but none of them is contractual; callers may tune all of them.
type Params struct {
	InitialGuess        float64 // starting sigma
	Tolerance           float64 // convergence threshold on |model - market|
	MaxIterations       int     // newton iteration budget
	MinVol              float64 // lower clamp on sigma
	MaxVol              float64 // upper clamp on sigma
	VegaEpsilon         float64 // below this, the newton step is degenerate
	BisectionIterations int     // budget for the bisection fallback
}

// DefaultParams returns the standard configuration: 20% seed, 1e-6 price
// tolerance, 100 iterations, sigma clamped to [1e-4, 5.0].
func DefaultParams() Params {
	return Params{
		InitialGuess:        0.20,
		Tolerance:           1e-6,
		MaxIterations:       100,
		MinVol:              1e-4,
		MaxVol:              5.0,
		VegaEpsilon:         1e-10,
		BisectionIterations: 200,
	}
}

// Solve runs Newton-Raphson on the quote: at each trial sigma it prices the
// contract, measures the error against the market price, and steps by
// error/vega until the error is within tolerance.
//
// Outcomes:
//   - converged: estimate with Converged=true, nil error
//   - iteration budget exhausted: estimate with Converged=false and the last
//     sigma (best effort for diagnostics), nil error
//   - vega below epsilon mid-iteration: zero estimate, ErrDegenerateVega
//   - invalid quote: zero estimate, ErrInvalidInput (before any iteration)
func Solve(q OptionQuote, p Params) (VolatilityEstimate, error) {
	if err := q.Validate(); err != nil {
		return VolatilityEstimate{}, err
	}

	sigma := p.InitialGuess
	var diff float64

	for i := 0; i < p.MaxIterations; i++ {
		price := pricing.BlackScholesPrice(q.Type.IsCall(),
			q.UnderlyingPrice, q.StrikePrice, q.TimeToExpiry,
			q.RiskFreeRate, q.DividendYield, sigma)
		diff = price - q.MarketPrice

		logger.Tracef("newton iter=%d sigma=%.6f model=%.6f market=%.6f diff=%.6f",
			i, sigma, price, q.MarketPrice, diff)

		if math.Abs(diff) < p.Tolerance {
			return VolatilityEstimate{
				Sigma:      sigma,
				Iterations: i,
				PriceError: diff,
				Converged:  true,
				Method:     "newton",
			}, nil
		}

		vega := pricing.BlackScholesVega(q.UnderlyingPrice, q.StrikePrice,
			q.TimeToExpiry, q.RiskFreeRate, q.DividendYield, sigma)
		if vega < p.VegaEpsilon {
			logger.Debugf("newton abort at iter=%d: vega=%g below epsilon %g", i, vega, p.VegaEpsilon)
			return VolatilityEstimate{}, ErrDegenerateVega
		}

		sigma -= diff / vega

		// Guardrails
		if sigma < p.MinVol {
			sigma = p.MinVol
		}
		if sigma > p.MaxVol {
			sigma = p.MaxVol
		}
	}

	return VolatilityEstimate{
		Sigma:      sigma,
		Iterations: p.MaxIterations,
		PriceError: diff,
		Converged:  false,
		Method:     "newton",
	}, nil
}

// SolveWithFallback tries Newton first and, when it aborts on a degenerate
// vega or exhausts its budget, falls back to bisection over [MinVol, MaxVol].
// The Black-Scholes price is strictly increasing in sigma, so bisection is
// slow but dependable where the local slope gives Newton nothing to work with
// (deep in/out-of-the-money, short-dated contracts).
func SolveWithFallback(q OptionQuote, p Params) (VolatilityEstimate, error) {
	est, err := Solve(q, p)
	if err == nil && est.Converged {
		return est, nil
	}
	if err != nil && !errors.Is(err, ErrDegenerateVega) {
		return est, err
	}

	logger.Debugf("newton failed (%v, converged=%t), falling back to bisection", err, est.Converged)
	return bisect(q, p), nil
}

// bisect solves by interval halving on sigma. Assumes the quote has already
// passed validation (the market price lies inside the attainable band, so a
// root exists whenever [MinVol, MaxVol] brackets it).
func bisect(q OptionQuote, p Params) VolatilityEstimate {
	low, high := p.MinVol, p.MaxVol
	var mid, diff float64

	for i := 0; i < p.BisectionIterations; i++ {
		mid = (low + high) / 2
		price := pricing.BlackScholesPrice(q.Type.IsCall(),
			q.UnderlyingPrice, q.StrikePrice, q.TimeToExpiry,
			q.RiskFreeRate, q.DividendYield, mid)
		diff = price - q.MarketPrice

		logger.Tracef("bisect iter=%d mid=%.6f model=%.6f diff=%.6f", i, mid, price, diff)

		if math.Abs(diff) < p.Tolerance {
			return VolatilityEstimate{
				Sigma:      mid,
				Iterations: i,
				PriceError: diff,
				Converged:  true,
				Method:     "bisection",
			}
		}

		if diff > 0 {
			high = mid
		} else {
			low = mid
		}
	}

	return VolatilityEstimate{
		Sigma:      (low + high) / 2,
		Iterations: p.BisectionIterations,
		PriceError: diff,
		Converged:  false,
		Method:     "bisection",
	}
}
