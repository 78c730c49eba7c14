// Package metrics exposes search counters to Prometheus.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talkcoin/talkminer/domain/pow"
)

// Search outcomes used as the "outcome" label.
const (
	OutcomeFound     = "found"
	OutcomeExhausted = "exhausted"
	OutcomeCancelled = "cancelled"
)

var (
	registry = prometheus.NewRegistry()

	hashesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "talkminer",
		Name:      "hashes_total",
		Help:      "Number of cascade evaluations performed by nonce searches.",
	})

	searchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talkminer",
		Name:      "searches_total",
		Help:      "Number of finished nonce searches by outcome.",
	}, []string{"outcome"})

	hashRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "talkminer",
		Name:      "hash_rate",
		Help:      "Hashes per second over the last sampling interval.",
	})

	registerOnce sync.Once
)

func register() {
	registerOnce.Do(func() {
		registry.MustRegister(hashesTotal, searchesTotal, hashRate)
	})
}

// RecordSearch accounts for a finished search. cancelled tells an
// unsuccessful search that was cancelled apart from one that ran out of nonces.
func RecordSearch(result *pow.SearchResult, cancelled bool) {
	register()
	hashesTotal.Add(float64(result.HashesTried))
	searchesTotal.WithLabelValues(Outcome(result, cancelled)).Inc()
}

// Outcome names the outcome of a finished search.
func Outcome(result *pow.SearchResult, cancelled bool) string {
	switch {
	case result.Found:
		return OutcomeFound
	case cancelled:
		return OutcomeCancelled
	default:
		return OutcomeExhausted
	}
}

// SetHashRate publishes the latest hash rate sample.
func SetHashRate(hashes uint64, elapsed time.Duration) float64 {
	register()
	if elapsed <= 0 {
		return 0
	}
	rate := float64(hashes) / elapsed.Seconds()
	hashRate.Set(rate)
	return rate
}

// Handler serves the metrics in the Prometheus exposition format.
func Handler() http.Handler {
	register()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
