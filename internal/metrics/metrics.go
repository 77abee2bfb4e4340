// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BatchRuns counts finished batches by outcome
	BatchRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "offerletters", Name: "batch_runs_total", Help: "Batch runs by outcome",
	}, []string{"outcome"})
	// LettersGenerated counts letters promoted into the letters directory
	LettersGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "offerletters", Name: "letters_generated_total", Help: "Offer letters written",
	})
	// LetterPages observes the page count of each letter
	LetterPages = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "offerletters", Name: "letter_pages", Help: "Pages per offer letter",
		Buckets: []float64{1, 2, 3, 4, 6, 8},
	})
	// BatchDuration observes batch wall time
	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "offerletters", Name: "batch_duration_seconds", Help: "Batch duration",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
	// IdentifierCollisions counts identifier draws that were already taken
	IdentifierCollisions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "offerletters", Name: "identifier_collisions_total", Help: "Identifier draws rejected as already used",
	})
	// HTTPRequests counts requests by route and status
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "offerletters", Name: "http_requests_total", Help: "HTTP requests by route and status",
	}, []string{"route", "status"})
)

func init() {
	prometheus.MustRegister(BatchRuns, LettersGenerated, LetterPages, BatchDuration, IdentifierCollisions, HTTPRequests)
}

// Handler serves the default registry
func Handler() http.Handler { return promhttp.Handler() }

// ObserveBatch records one finished batch
func ObserveBatch(outcome string, d time.Duration) {
	BatchRuns.WithLabelValues(outcome).Inc()
	BatchDuration.Observe(d.Seconds())
}

// ObserveLetter records one written letter
func ObserveLetter(pages int) {
	LettersGenerated.Inc()
	LetterPages.Observe(float64(pages))
}
