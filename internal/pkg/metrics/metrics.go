package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and route
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formco_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "formco_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "formco_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// RateLimiterRejections counts requests rejected by the rate limiter
	RateLimiterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formco_rate_limiter_rejections_total",
			Help: "Total number of requests rejected by rate limiter",
		},
		[]string{"path"},
	)

	// ApplicationsSubmitted counts persisted applications by event type
	ApplicationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formco_applications_submitted_total",
			Help: "Total number of applications accepted for persistence",
		},
		[]string{"event_type"},
	)

	// EligibilityRejections counts refused submissions by reason
	EligibilityRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formco_eligibility_rejections_total",
			Help: "Total number of application submissions refused by eligibility checks",
		},
		[]string{"kind"},
	)

	// LifecycleTransitions counts application state changes by axis
	LifecycleTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formco_application_transitions_total",
			Help: "Total number of application lifecycle updates",
		},
		[]string{"axis"},
	)

	// CompetitionsCreated counts created competitions by mode
	CompetitionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formco_competitions_created_total",
			Help: "Total number of competitions created",
		},
		[]string{"mode"},
	)
)

// EventType labels an application as team or individual
func EventType(isTeamEvent bool) string {
	if isTeamEvent {
		return "team"
	}
	return "individual"
}
