package pricing

import "math"

// Greeks bundles the standard Black-Scholes sensitivities at a given volatility.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// BlackScholesGreeks computes all greeks at once. Convenience wrapper used by
// callers that report sensitivities alongside a solved volatility.
func BlackScholesGreeks(isCall bool, S, K, T, r, q, sigma float64) Greeks {
	return Greeks{
		Delta: BlackScholesDelta(isCall, S, K, T, r, q, sigma),
		Gamma: BlackScholesGamma(S, K, T, r, q, sigma),
		Vega:  BlackScholesVega(S, K, T, r, q, sigma),
		Theta: BlackScholesTheta(isCall, S, K, T, r, q, sigma),
		Rho:   BlackScholesRho(isCall, S, K, T, r, q, sigma),
	}
}

// BlackScholesDelta calculates delta, the sensitivity of the option price to the
// underlying price. At expiry it degenerates to the payoff slope (0/1 for calls,
// -1/0 for puts).
func BlackScholesDelta(isCall bool, S, K, T, r, q, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		if isCall {
			if S > K {
				return 1
			}
			return 0
		}
		if S < K {
			return -1
		}
		return 0
	}

	d1, _ := d1d2(S, K, T, r, q, sigma)
	dfQ := math.Exp(-q * T)
	if isCall {
		return dfQ * normCDF(d1)
	}
	return dfQ * (normCDF(d1) - 1)
}

// BlackScholesGamma calculates gamma, the second derivative of price with
// respect to the underlying. Identical for calls and puts.
func BlackScholesGamma(S, K, T, r, q, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		return 0
	}

	d1, _ := d1d2(S, K, T, r, q, sigma)
	return math.Exp(-q*T) * normPDF(d1) / (S * sigma * math.Sqrt(T))
}

// BlackScholesTheta calculates theta, the time decay of the option price.
// Returned as an annualized rate; divide by 365 for per-day decay.
func BlackScholesTheta(isCall bool, S, K, T, r, q, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		return 0
	}

	d1, d2 := d1d2(S, K, T, r, q, sigma)
	dfR := math.Exp(-r * T)
	dfQ := math.Exp(-q * T)

	term1 := -(S * dfQ * normPDF(d1) * sigma) / (2 * math.Sqrt(T))
	if isCall {
		return term1 + q*S*dfQ*normCDF(d1) - r*K*dfR*normCDF(d2)
	}
	return term1 - q*S*dfQ*normCDF(-d1) + r*K*dfR*normCDF(-d2)
}

// BlackScholesRho calculates rho, the sensitivity of the option price to the
// risk-free rate. Raw value per 1.0 change in r.
func BlackScholesRho(isCall bool, S, K, T, r, q, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		return 0
	}

	_, d2 := d1d2(S, K, T, r, q, sigma)
	dfR := math.Exp(-r * T)
	if isCall {
		return K * T * dfR * normCDF(d2)
	}
	return -K * T * dfR * normCDF(-d2)
}
