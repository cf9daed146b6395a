// Package metrics exposes Prometheus collectors for match generation,
// match responses and the HTTP API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CandidatesScored counts every candidate profile run through the scorer.
	CandidatesScored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roommatch_candidates_scored_total",
		Help: "Total number of candidate profiles scored during match generation",
	})

	// MatchesCreated counts pending matches written by generation.
	MatchesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roommatch_matches_created_total",
		Help: "Total number of matches created",
	})

	// MatchConflicts counts inserts skipped because the pair already had a match.
	MatchConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roommatch_match_conflicts_total",
		Help: "Match inserts skipped due to an existing match for the pair",
	})

	// MatchResponses counts responses, labeled by decision.
	MatchResponses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roommatch_match_responses_total",
		Help: "Total number of match responses",
	}, []string{"decision"}) // decision = "accept", "reject"

	// GenerationDuration records how long one generation run takes.
	GenerationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roommatch_generation_duration_seconds",
		Help:    "Match generation latency in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})

	// HTTPRequests counts API requests by route, method and status.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roommatch_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	// HTTPLatency records API request latency in seconds.
	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roommatch_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

func init() {
	prometheus.MustRegister(
		CandidatesScored,
		MatchesCreated,
		MatchConflicts,
		MatchResponses,
		GenerationDuration,
		HTTPRequests,
		HTTPLatency,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
