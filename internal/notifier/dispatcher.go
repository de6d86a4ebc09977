package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/metrics"
	"github.com/mauv0809/duel-lords/internal/pubsub"
	"github.com/sethvargo/go-retry"
)

var _ EventDispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher around the given Notifier.
func NewDispatcher(n Notifier, m metrics.Metrics, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		notifier: n,
		metrics:  m,
		timeout:  DefaultTimeout,
		retries:  DefaultRetries,
		backoff:  DefaultBackoff,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch delivers ev to each participant and to the channel concurrently.
// One recipient failing never affects another.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.Event) Report {
	type target struct {
		id      string
		channel bool
	}
	var targets []target
	for _, id := range ev.Participants() {
		targets = append(targets, target{id: id})
	}
	channel := ev.ChannelRef
	if channel == "" {
		channel = d.defaultChannel
	}
	if channel != "" {
		targets = append(targets, target{id: channel, channel: true})
	}

	report := Report{Kind: ev.Kind, MatchID: ev.MatchID, Deliveries: make([]Delivery, len(targets))}
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t target) {
			defer wg.Done()
			send := func(ctx context.Context) error {
				if t.channel {
					return d.notifier.NotifyChannel(ctx, t.id, ev)
				}
				return d.notifier.NotifyParticipant(ctx, t.id, ev)
			}
			attempts, err := d.deliver(ctx, send)
			report.Deliveries[i] = Delivery{Target: t.id, Channel: t.channel, Attempts: attempts, Err: err}
		}(i, t)
	}
	wg.Wait()

	for _, del := range report.Deliveries {
		if del.Err != nil {
			log.Error("Failed to deliver notification", "error", del.Err, "kind", ev.Kind, "matchID", ev.MatchID, "target", del.Target, "attempts", del.Attempts)
			d.metrics.IncNotifFailed()
			if d.counters != nil {
				d.counters.Increment(fmt.Sprintf("dispatch_failed_%s", ev.Kind))
			}
			continue
		}
		d.metrics.IncNotifSent()
	}

	d.publish(ctx, ev)

	log.Info("Dispatched event", "kind", ev.Kind, "matchID", ev.MatchID, "delivered", report.Delivered(), "failed", report.Failed())
	return report
}

// deliver runs send with a per-attempt timeout and bounded exponential retries.
func (d *Dispatcher) deliver(ctx context.Context, send func(context.Context) error) (int, error) {
	attempts := 0
	b := retry.WithMaxRetries(d.retries, retry.NewExponential(d.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		if err := send(attemptCtx); err != nil {
			log.Debug("Notification attempt failed", "error", err, "attempt", attempts)
			return retry.RetryableError(err)
		}
		return nil
	})
	return attempts, err
}

func (d *Dispatcher) publish(ctx context.Context, ev domain.Event) {
	if d.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.publisher.SendMessage(pubCtx, pubsub.TopicFor(ev.Kind), ev); err != nil {
		log.Warn("Failed to publish event", "error", err, "kind", ev.Kind, "matchID", ev.MatchID)
	}
}
