package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	Ticks              prometheus.Counter
	TickDuration       prometheus.Histogram
	MatchesEvaluated   prometheus.Counter
	RemindersSent      prometheus.Counter
	MatchesStarted     prometheus.Counter
	StoreErrors        prometheus.Counter
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
