package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesTotal       = promauto.NewCounter(prometheus.CounterOpts{Namespace: "foodshare", Name: "matches_total", Help: "Donation batches matched to a recipient"})
	DiversionsTotal    = promauto.NewCounter(prometheus.CounterOpts{Namespace: "foodshare", Name: "diversions_total", Help: "Donation batches diverted to a waste facility"})
	UnmatchedTotal     = promauto.NewCounter(prometheus.CounterOpts{Namespace: "foodshare", Name: "unmatched_total", Help: "Donation batches with no eligible recipient"})
	RationaleFallbacks = promauto.NewCounter(prometheus.CounterOpts{Namespace: "foodshare", Name: "rationale_fallbacks_total", Help: "External rationale calls that timed out, errored or were rejected"})
	NotifyFailures     = promauto.NewCounter(prometheus.CounterOpts{Namespace: "foodshare", Name: "notify_failures_total", Help: "Best-effort notifications that failed to deliver"})
	MatchLatency       = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: "foodshare", Name: "match_latency_seconds", Help: "Match decision latency in seconds"})
	RecipientsOnline   = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "foodshare", Name: "recipients_online", Help: "Recipient organizations currently online"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "foodshare", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foodshare",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
