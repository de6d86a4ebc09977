package notifier

import (
	"time"

	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/metrics"
	"github.com/mauv0809/duel-lords/internal/pubsub"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 2
	DefaultBackoff = 500 * time.Millisecond
)

// Dispatcher fans an event out to participants and the announcement channel.
type Dispatcher struct {
	notifier       Notifier
	metrics        metrics.Metrics
	counters       metrics.MetricsStore
	publisher      pubsub.PubSubClient
	defaultChannel string
	timeout        time.Duration
	retries        uint64
	backoff        time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout bounds every single delivery attempt.
func WithTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

// WithRetries sets how many times a failed delivery is retried and the base
// of the exponential backoff between attempts.
func WithRetries(retries int, backoff time.Duration) Option {
	return func(disp *Dispatcher) {
		if retries >= 0 {
			disp.retries = uint64(retries)
		}
		if backoff > 0 {
			disp.backoff = backoff
		}
	}
}

// WithDefaultChannel sets the channel used when an event carries no channel ref.
func WithDefaultChannel(channelRef string) Option {
	return func(disp *Dispatcher) {
		disp.defaultChannel = channelRef
	}
}

// WithCounterStore persists per-kind failure counts.
func WithCounterStore(s metrics.MetricsStore) Option {
	return func(disp *Dispatcher) {
		disp.counters = s
	}
}

// WithPublisher additionally publishes every event to pub/sub.
func WithPublisher(p pubsub.PubSubClient) Option {
	return func(disp *Dispatcher) {
		disp.publisher = p
	}
}

// Delivery is the outcome for one recipient.
type Delivery struct {
	Target   string
	Channel  bool
	Attempts int
	Err      error
}

// Report summarizes one Dispatch call.
type Report struct {
	Kind       domain.EventKind
	MatchID    string
	Deliveries []Delivery
}

// Delivered counts successful deliveries.
func (r Report) Delivered() int {
	n := 0
	for _, d := range r.Deliveries {
		if d.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts deliveries that failed after all retries.
func (r Report) Failed() int {
	return len(r.Deliveries) - r.Delivered()
}
