package pricing_test

import (
	"math"
	"testing"

	"github.com/contactkeval/iv-solver/internal/pricing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// Simple sanity check: ATM call should have non-zero value
func TestBlackScholesCallBasic(t *testing.T) {
	call := pricing.BlackScholesPrice(true, 100, 100, 30.0/365.0, 0.05, 0, 0.20)
	if call <= 0 {
		t.Fatalf("expected call price > 0, got %f", call)
	}
}

// Known closed-form values for the standard textbook contract.
func TestBlackScholesKnownValues(t *testing.T) {
	call := pricing.BlackScholesPrice(true, 100, 100, 1, 0.05, 0, 0.20)
	if !approxEqual(call, 10.450584, 1e-4) {
		t.Fatalf("ATM call: expected 10.450584, got %f", call)
	}

	put := pricing.BlackScholesPrice(false, 100, 100, 1, 0.05, 0, 0.20)
	if !approxEqual(put, 5.573526, 1e-4) {
		t.Fatalf("ATM put: expected 5.573526, got %f", put)
	}
}

// Put-call parity check: call - put = S*e^{-qT} - K*e^{-rT}
func TestBlackScholesPutCallParity(t *testing.T) {
	cases := []struct {
		name             string
		S, K, T, r, q, v float64
	}{
		{"no_dividend", 100, 100, 45.0 / 365.0, 0.03, 0, 0.25},
		{"with_dividend", 120, 110, 0.5, 0.05, 0.02, 0.30},
		{"otm_call", 90, 110, 1.0, 0.04, 0, 0.18},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			call := pricing.BlackScholesPrice(true, tc.S, tc.K, tc.T, tc.r, tc.q, tc.v)
			put := pricing.BlackScholesPrice(false, tc.S, tc.K, tc.T, tc.r, tc.q, tc.v)

			lhs := call - put
			rhs := tc.S*math.Exp(-tc.q*tc.T) - tc.K*math.Exp(-tc.r*tc.T)

			if !approxEqual(lhs, rhs, 1e-6) {
				t.Fatalf("put-call parity violated: LHS=%f RHS=%f", lhs, rhs)
			}
		})
	}
}

// The price must be strictly increasing in sigma; this is what lets the
// Newton solver converge from any reasonable seed.
func TestPriceMonotonicInSigma(t *testing.T) {
	prev := pricing.BlackScholesPrice(true, 100, 105, 0.5, 0.05, 0, 0.01)
	for sigma := 0.05; sigma <= 3.0; sigma += 0.05 {
		p := pricing.BlackScholesPrice(true, 100, 105, 0.5, 0.05, 0, sigma)
		if p <= prev {
			t.Fatalf("price not increasing at sigma=%.2f: %f <= %f", sigma, p, prev)
		}
		prev = p
	}
}

// As sigma -> 0 the call approaches its discounted intrinsic value; as
// sigma grows large it approaches the spot.
func TestSigmaBoundaries(t *testing.T) {
	S, K, T, r := 100.0, 90.0, 1.0, 0.05

	low := pricing.BlackScholesPrice(true, S, K, T, r, 0, 1e-9)
	intrinsic := math.Max(0, S-K*math.Exp(-r*T))
	if !approxEqual(low, intrinsic, 1e-4) {
		t.Fatalf("sigma->0: expected %f, got %f", intrinsic, low)
	}

	high := pricing.BlackScholesPrice(true, S, K, T, r, 0, 10.0)
	if high < 0.99*S || high > S {
		t.Fatalf("sigma->inf: expected price near spot %f, got %f", S, high)
	}
}

func TestIntrinsicAtExpiry(t *testing.T) {
	call := pricing.BlackScholesPrice(true, 110, 100, 0, 0.05, 0, 0.2)
	if call != 10 {
		t.Fatalf("expired ITM call: expected 10, got %f", call)
	}
	put := pricing.BlackScholesPrice(false, 110, 100, 0, 0.05, 0, 0.2)
	if put != 0 {
		t.Fatalf("expired OTM put: expected 0, got %f", put)
	}
}

func TestVega(t *testing.T) {
	v := pricing.BlackScholesVega(100, 100, 1, 0.05, 0, 0.20)
	if v <= 0 {
		t.Fatalf("expected positive vega, got %f", v)
	}
	// degenerate inputs collapse to zero
	if pricing.BlackScholesVega(100, 100, 0, 0.05, 0, 0.20) != 0 {
		t.Fatal("vega at T=0 should be 0")
	}
	if pricing.BlackScholesVega(100, 100, 1, 0.05, 0, 0) != 0 {
		t.Fatal("vega at sigma=0 should be 0")
	}
}

func TestGreeksSanity(t *testing.T) {
	S, K, T, r, q, sigma := 100.0, 100.0, 1.0, 0.05, 0.0, 0.20

	callDelta := pricing.BlackScholesDelta(true, S, K, T, r, q, sigma)
	putDelta := pricing.BlackScholesDelta(false, S, K, T, r, q, sigma)
	if callDelta <= 0 || callDelta >= 1 {
		t.Fatalf("call delta out of (0,1): %f", callDelta)
	}
	if putDelta <= -1 || putDelta >= 0 {
		t.Fatalf("put delta out of (-1,0): %f", putDelta)
	}
	if !approxEqual(callDelta-putDelta, math.Exp(-q*T), 1e-9) {
		t.Fatalf("delta parity violated: %f - %f", callDelta, putDelta)
	}

	if g := pricing.BlackScholesGamma(S, K, T, r, q, sigma); g <= 0 {
		t.Fatalf("expected positive gamma, got %f", g)
	}
	if th := pricing.BlackScholesTheta(true, S, K, T, r, q, sigma); th >= 0 {
		t.Fatalf("ATM call theta should be negative, got %f", th)
	}
	if rho := pricing.BlackScholesRho(true, S, K, T, r, q, sigma); rho <= 0 {
		t.Fatalf("call rho should be positive, got %f", rho)
	}
	if rho := pricing.BlackScholesRho(false, S, K, T, r, q, sigma); rho >= 0 {
		t.Fatalf("put rho should be negative, got %f", rho)
	}
}
