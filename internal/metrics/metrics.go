// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package metrics provides Prometheus instrumentation for Vitrina.
//
// Metrics cover the recommendation request path (request counts by outcome,
// latency), the interaction ingest pipeline, and the MongoDB store adapter
// (query errors, circuit breaker state).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation outcomes. Every Recommend call resolves to exactly one.
const (
	// OutcomePersonalized means neighbor-based candidate scoring produced
	// the result.
	OutcomePersonalized = "personalized"
	// OutcomeTrending means the weighted-engagement fallback produced the
	// result.
	OutcomeTrending = "trending"
	// OutcomeRecency means the interaction log was empty and the newest
	// catalog products were returned.
	OutcomeRecency = "recency"
	// OutcomeInvalidUser means the user id was malformed and the call
	// soft-failed to an empty result.
	OutcomeInvalidUser = "invalid_user"
	// OutcomeError means a store or catalog query failed.
	OutcomeError = "error"
)

// Ingest results.
const (
	IngestOK        = "ok"
	IngestMalformed = "malformed"
	IngestInvalid   = "invalid"
	IngestFailed    = "store_failed"
)

var (
	// RecommendRequests counts recommendation requests by outcome.
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrina_recommend_requests_total",
			Help: "Total recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// RecommendDuration tracks end-to-end recommendation latency.
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vitrina_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RecommendResultSize tracks how many products each request returned.
	RecommendResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vitrina_recommend_result_size",
			Help:    "Number of products returned per recommendation request",
			Buckets: []float64{0, 1, 3, 5, 9, 15, 25, 50},
		},
	)

	// IngestEvents counts consumed interaction events by result.
	IngestEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrina_ingest_events_total",
			Help: "Total interaction events consumed by result",
		},
		[]string{"result"},
	)

	// StoreQueryErrors counts failed store queries by operation.
	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrina_store_query_errors_total",
			Help: "Total MongoDB store query errors by operation",
		},
		[]string{"operation"},
	)

	// StoreBreakerOpen reports whether the store circuit breaker is open.
	StoreBreakerOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vitrina_store_breaker_open",
			Help: "1 when the MongoDB circuit breaker is open, 0 otherwise",
		},
	)
)

// ObserveRecommend records one finished recommendation request.
func ObserveRecommend(outcome string, resultSize int, start time.Time) {
	RecommendRequests.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(time.Since(start).Seconds())
	RecommendResultSize.Observe(float64(resultSize))
}
