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
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_scheduler_ticks_total",
			Help: "The total number of scheduler ticks run.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "duel_scheduler_tick_duration_seconds",
			Help:    "The duration of a full scheduler tick.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		MatchesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_matches_evaluated_total",
			Help: "The total number of scheduled matches evaluated by the scheduler.",
		}),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_reminders_total",
			Help: "The total number of reminder transitions applied.",
		}),
		MatchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_matches_started_total",
			Help: "The total number of matches moved to active.",
		}),
		StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_store_errors_total",
			Help: "The total number of store failures seen during ticks.",
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_notifications_sent_total",
			Help: "The total number of notifications successfully delivered.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_notifications_failed_total",
			Help: "The total number of notifications that failed after all retries.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "duel_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Ticks,
		s.TickDuration,
		s.MatchesEvaluated,
		s.RemindersSent,
		s.MatchesStarted,
		s.StoreErrors,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncTicks() {
	s.Ticks.Inc()
}

func (s *Service) ObserveTickDuration(seconds float64) {
	s.TickDuration.Observe(seconds)
}

func (s *Service) IncMatchesEvaluated() {
	s.MatchesEvaluated.Inc()
}

func (s *Service) IncRemindersSent() {
	s.RemindersSent.Inc()
}

func (s *Service) IncMatchesStarted() {
	s.MatchesStarted.Inc()
}

func (s *Service) IncStoreErrors() {
	s.StoreErrors.Inc()
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
