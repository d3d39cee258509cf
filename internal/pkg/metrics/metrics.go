package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PortfolioRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "copilot_portfolio_requests_total",
		Help: "Portfolio summary requests by outcome (cache_hit, computed, error).",
	}, []string{"outcome"})

	PortfolioCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "copilot_portfolio_cache_hits_total",
		Help: "Fresh portfolio cache hits by tier.",
	}, []string{"tier"})

	PortfolioBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "copilot_portfolio_build_duration_seconds",
		Help:    "Time spent computing a portfolio summary on a cache miss.",
		Buckets: prometheus.DefBuckets,
	})

	BalanceReadFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "copilot_balance_read_failures_total",
		Help: "Balance reads excluded from a portfolio, by error kind.",
	}, []string{"kind"})

	PriceCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "copilot_price_cache_hits_total",
		Help: "Fresh price cache hits by tier.",
	}, []string{"tier"})

	PriceFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "copilot_price_fetch_duration_seconds",
		Help:    "Latency of price API batch requests.",
		Buckets: prometheus.DefBuckets,
	})
)

const (
	TierMemory  = "memory"
	TierDurable = "durable"
)

var registerOnce sync.Once

// MustRegisterMetrics registers every collector with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PortfolioRequests,
			PortfolioCacheHits,
			PortfolioBuildDuration,
			BalanceReadFailures,
			PriceCacheHits,
			PriceFetchDuration,
		)
	})
}
