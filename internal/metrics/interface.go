package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncTicks()
	ObserveTickDuration(seconds float64)
	IncMatchesEvaluated()
	IncRemindersSent()
	IncMatchesStarted()
	IncStoreErrors()
	IncNotifSent()
	IncNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore persists named counters so they survive restarts.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
