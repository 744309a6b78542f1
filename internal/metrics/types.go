package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds the Prometheus collectors for the ledger.
type Service struct {
	MatchesRecorded    prometheus.Counter
	MatchesRevised     prometheus.Counter
	MatchesDeleted     prometheus.Counter
	EntitiesCreated    *prometheus.CounterVec
	ValidationWarnings prometheus.Counter
	StatsComputed      prometheus.Counter
	SaveDuration       prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
