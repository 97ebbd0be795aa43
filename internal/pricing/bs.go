package pricing

import "math"

const sqrt2Pi = 2.5066282746310002

// BlackScholesPrice calculates the price of a European option using the Black-Scholes model.
//
// Parameters:
//   - isCall: true for call option, false for put option
//   - S: spot price of the underlying asset
//   - K: strike price of the option
//   - T: time to expiry in years
//   - r: risk-free interest rate (annual)
//   - q: continuous dividend yield (annual)
//   - sigma: volatility of the underlying asset (annual, as a decimal)
//
// Returns:
//
//	The theoretical price of the option. If time to expiry is zero or negative,
//	returns the intrinsic value; if volatility is zero or negative, returns the
//	discounted intrinsic value.
//
// Note: This implementation uses the standard Black-Scholes formula for European options
// and relies on normCDF for the cumulative standard normal distribution function.
func BlackScholesPrice(
	isCall bool,
	S float64, // spot
	K float64, // strike
	T float64, // time to expiry in years
	r float64, // risk-free rate
	q float64, // dividend yield
	sigma float64, // volatility
) float64 {

	// Immediate expiry: option is worth its intrinsic value.
	if T <= 0 {
		if isCall {
			return math.Max(0, S-K)
		}
		return math.Max(0, K-S)
	}

	dfR := math.Exp(-r * T)
	dfQ := math.Exp(-q * T)

	// Zero volatility: forward intrinsic under the discount factors.
	if sigma <= 0 {
		if isCall {
			return math.Max(0, S*dfQ-K*dfR)
		}
		return math.Max(0, K*dfR-S*dfQ)
	}

	d1, d2 := d1d2(S, K, T, r, q, sigma)

	if isCall {
		return S*dfQ*normCDF(d1) - K*dfR*normCDF(d2)
	}
	return K*dfR*normCDF(-d2) - S*dfQ*normCDF(-d1)
}

// BlackScholesVega calculates the vega of a European option using the Black-Scholes model.
// Vega measures the sensitivity of the option price to changes in the underlying asset's
// volatility, per 1.0 change in sigma (not per 1%). The formula is identical for calls
// and puts.
//
// Returns 0 if T or sigma is non-positive.
func BlackScholesVega(
	S float64,
	K float64,
	T float64,
	r float64,
	q float64,
	sigma float64,
) float64 {

	if T <= 0 || sigma <= 0 {
		return 0
	}

	d1, _ := d1d2(S, K, T, r, q, sigma)
	return S * math.Exp(-q*T) * normPDF(d1) * math.Sqrt(T)
}

// d1d2 computes the d1 and d2 terms of the Black-Scholes formula.
// Callers are expected to handle T<=0 and sigma<=0 before calling.
func d1d2(S, K, T, r, q, sigma float64) (float64, float64) {
	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r-q+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	return d1, d2
}

// normPDF calculates the probability density function (PDF) of the standard normal
// distribution at x: exp(-0.5 * x^2) / sqrt(2π)
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// normCDF computes the cumulative distribution function of the standard normal
// distribution for a given value x using the error function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}
