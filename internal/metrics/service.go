package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_matches_recorded_total",
			Help: "The total number of matches recorded.",
		}),
		MatchesRevised: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_matches_revised_total",
			Help: "The total number of match revisions saved.",
		}),
		MatchesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_matches_deleted_total",
			Help: "The total number of matches deleted.",
		}),
		EntitiesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tennis_entities_created_total",
			Help: "The total number of players and venues created by name resolution.",
		}, []string{"kind"}),
		ValidationWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_score_validation_warnings_total",
			Help: "The total number of score warnings returned on save.",
		}),
		StatsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_stats_computed_total",
			Help: "The total number of stats aggregations.",
		}),
		SaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tennis_match_save_duration_seconds",
			Help:    "The duration of a match save, resolution included.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tennis_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesRecorded,
		s.MatchesRevised,
		s.MatchesDeleted,
		s.EntitiesCreated,
		s.ValidationWarnings,
		s.StatsComputed,
		s.SaveDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) IncMatchesRevised() {
	s.MatchesRevised.Inc()
}

func (s *Service) IncMatchesDeleted(n int) {
	s.MatchesDeleted.Add(float64(n))
}

func (s *Service) IncEntitiesCreated(kind string) {
	s.EntitiesCreated.WithLabelValues(kind).Inc()
}

func (s *Service) AddValidationWarnings(n int) {
	s.ValidationWarnings.Add(float64(n))
}

func (s *Service) IncStatsComputed() {
	s.StatsComputed.Inc()
}

func (s *Service) ObserveSaveDuration(duration float64) {
	s.SaveDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
