package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/contactkeval/iv-solver/internal/logger"
	"github.com/contactkeval/iv-solver/internal/pricing"
	"github.com/contactkeval/iv-solver/internal/quotes"
	"github.com/contactkeval/iv-solver/internal/report"
	"github.com/contactkeval/iv-solver/internal/solver"
)

func main() {
	// .env holds site defaults (RISK_FREE_RATE, DIVIDEND_YIELD, LISTEN_ADDR);
	// flags always win.
	_ = godotenv.Load()

	optType := flag.String("type", "call", "option type: call or put")
	spot := flag.Float64("spot", 0, "underlying price S")
	strike := flag.Float64("strike", 0, "strike price K")
	expiry := flag.Float64("expiry", 0, "time to expiry in years T")
	rate := flag.Float64("rate", envFloat("RISK_FREE_RATE", 0.05), "risk-free rate r (annual)")
	div := flag.Float64("div", envFloat("DIVIDEND_YIELD", 0), "continuous dividend yield q (annual)")
	price := flag.Float64("price", 0, "observed option market price")
	guess := flag.Float64("guess", 0.20, "initial volatility guess")
	tol := flag.Float64("tol", 1e-6, "convergence tolerance on pricing error")
	maxIter := flag.Int("max-iter", 100, "newton iteration budget")
	fallback := flag.Bool("fallback", true, "fall back to bisection when newton fails")
	input := flag.String("input", "", "CSV file of quotes to solve in batch")
	outDir := flag.String("out", "./out", "output directory for batch reports")
	rest := flag.Bool("rest", false, "run as REST server (accept solve requests)")
	addr := flag.String("port", envString("LISTEN_ADDR", ":8080"), "REST server listen address")
	verbosity := flag.Int("v", 1, "verbosity: 0=errors,1=info,2=debug,3=trace")
	flag.Parse()

	logger.SetVerbosity(*verbosity)

	params := solver.DefaultParams()
	params.InitialGuess = *guess
	params.Tolerance = *tol
	params.MaxIterations = *maxIter

	if *rest {
		runServer(*addr, params, *verbosity)
		return
	}

	if *input != "" {
		runBatch(*input, *outDir, params, *fallback)
		return
	}

	quote := solver.OptionQuote{
		Type:            solver.OptionType(*optType),
		UnderlyingPrice: *spot,
		StrikePrice:     *strike,
		TimeToExpiry:    *expiry,
		RiskFreeRate:    *rate,
		DividendYield:   *div,
		MarketPrice:     *price,
	}
	runOnce(quote, params, *fallback)
}

// runOnce solves a single quote from flags and prints the estimate plus the
// greeks at the solved volatility to stdout.
func runOnce(q solver.OptionQuote, params solver.Params, fallback bool) {
	est, err := solveQuote(q, params, fallback)
	if err != nil {
		logger.Errorf("solve failed: %v", err)
		os.Exit(1)
	}
	if !est.Converged {
		logger.Errorf("did not converge after %d iterations (last sigma=%.6f, error=%.2e)",
			est.Iterations, est.Sigma, est.PriceError)
		os.Exit(1)
	}

	fmt.Printf("implied volatility: %.6f (%.2f%%)\n", est.Sigma, est.Sigma*100)
	fmt.Printf("method: %s, iterations: %d, price error: %.2e\n", est.Method, est.Iterations, est.PriceError)

	g := pricing.BlackScholesGreeks(q.Type.IsCall(), q.UnderlyingPrice, q.StrikePrice,
		q.TimeToExpiry, q.RiskFreeRate, q.DividendYield, est.Sigma)
	fmt.Printf("delta: %.4f  gamma: %.6f  vega: %.4f  theta: %.4f  rho: %.4f\n",
		g.Delta, g.Gamma, g.Vega, g.Theta, g.Rho)
}

// runBatch solves every quote in a CSV file and writes JSON/CSV reports.
// Failed quotes are recorded in the report rather than aborting the run.
func runBatch(path, outDir string, params solver.Params, fallback bool) {
	start := time.Now()

	qs, err := quotes.LoadCSV(path)
	if err != nil {
		logger.Errorf("loading quotes: %v", err)
		os.Exit(1)
	}

	results := make([]report.Result, 0, len(qs))
	solved := 0
	for _, q := range qs {
		res := report.Result{Quote: q}
		est, err := solveQuote(q, params, fallback)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Estimate = est
			if est.Converged {
				solved++
			}
		}
		results = append(results, res)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		logger.Errorf("could not create output dir %s: %v", outDir, err)
		os.Exit(1)
	}
	if err := report.WriteJSON(results, outDir); err != nil {
		logger.Errorf("writing JSON report: %v", err)
	}
	if err := report.WriteCSV(results, outDir); err != nil {
		logger.Errorf("writing CSV report: %v", err)
	}
	logger.Infof("solved %d/%d quotes in %v, reports in %s", solved, len(results), time.Since(start), outDir)
}

// runServer exposes the solver over HTTP: POST /solve takes a quote and
// returns the estimate plus greeks at the solved volatility.
func runServer(addr string, params solver.Params, verbosity int) {
	if verbosity < 2 {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/solve", func(c *gin.Context) {
		var q solver.OptionQuote
		if err := c.ShouldBindJSON(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		est, err := solveQuote(q, params, true)
		switch {
		case errors.Is(err, solver.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case err != nil:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		g := pricing.BlackScholesGreeks(q.Type.IsCall(), q.UnderlyingPrice, q.StrikePrice,
			q.TimeToExpiry, q.RiskFreeRate, q.DividendYield, est.Sigma)
		c.JSON(http.StatusOK, gin.H{
			"estimate": est,
			"greeks":   g,
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	logger.Infof("starting REST server on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

func solveQuote(q solver.OptionQuote, params solver.Params, fallback bool) (solver.VolatilityEstimate, error) {
	if fallback {
		return solver.SolveWithFallback(q, params)
	}
	return solver.Solve(q, params)
}

func envFloat(key string, def float64) float64 {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
		logger.Errorf("ignoring malformed %s=%q", key, s)
	}
	return def
}

func envString(key, def string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return def
}
