package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tedred_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tedred_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tedred_wizard_sessions_started_total",
			Help: "Total number of wizard sessions started",
		},
	)

	StepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tedred_wizard_step_transitions_total",
			Help: "Total number of outer step transitions by target step",
		},
		[]string{"to"},
	)

	StepBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tedred_wizard_step_blocked_total",
			Help: "Total number of advances rejected by a step gate",
		},
		[]string{"step"},
	)

	AssessmentsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tedred_assessments_scored_total",
			Help: "Total number of assessments scored by top department",
		},
		[]string{"top"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tedred_submissions_total",
			Help: "Total number of submissions by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tedred_submission_duration_seconds",
			Help:    "Duration of submissions including retries",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tedred_exports_total",
			Help: "Total number of export documents by format and outcome",
		},
		[]string{"format", "outcome"},
	)
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Outcome maps an error to a label value
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// GinMiddleware records request counts and latency per route template
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
