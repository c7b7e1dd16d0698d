package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// Vote intake metrics
	votesAcceptedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votes_accepted_total",
			Help: "Total number of votes pushed onto the queue",
		},
		[]string{"option"},
	)

	votesRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "votes_rejected_total",
			Help: "Total number of submissions outside the option set",
		},
	)

	// Queue metrics
	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vote_queue_depth",
			Help: "Current number of entries on the vote queue",
		},
		[]string{"queue_name"},
	)

	// Worker metrics
	ballotsTalliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballots_tallied_total",
			Help: "Total number of ballots committed to the tally table",
		},
		[]string{"option"},
	)

	ballotsDiscardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ballots_discarded_total",
			Help: "Total number of malformed queue entries discarded",
		},
	)

	tallyErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tally_errors_total",
			Help: "Total number of errors while processing queue entries",
		},
		[]string{"stage"},
	)

	tallyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tally_commit_duration_seconds",
			Help:    "Upsert duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// HTTP metrics
func RecordHTTPRequest(method, endpoint, statusCode string, duration float64) {
	httpRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, statusCode).Observe(duration)
}

// Intake metrics
func RecordVoteAccepted(option string) {
	votesAcceptedTotal.WithLabelValues(option).Inc()
}

func RecordVoteRejected() {
	votesRejectedTotal.Inc()
}

// Queue metrics
func SetQueueDepth(queueName string, depth float64) {
	queueDepth.WithLabelValues(queueName).Set(depth)
}

// Worker metrics
func RecordBallotTallied(option string, duration float64) {
	ballotsTalliedTotal.WithLabelValues(option).Inc()
	tallyDuration.Observe(duration)
}

func RecordBallotDiscarded() {
	ballotsDiscardedTotal.Inc()
}

func RecordTallyError(stage string) {
	tallyErrorsTotal.WithLabelValues(stage).Inc()
}
