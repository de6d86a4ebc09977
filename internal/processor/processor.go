package processor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/duel"
	"github.com/mauv0809/duel-lords/internal/metrics"
)

// New creates a new Processor.
func New(matches Matches, events Dispatcher, metrics metrics.Metrics, clock clockwork.Clock, storeTimeout time.Duration) *Processor {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &Processor{
		matches:      matches,
		events:       events,
		metrics:      metrics,
		clock:        clock,
		storeTimeout: storeTimeout,
	}
}

// ProcessMatches runs one tick at the current clock time. It is safe to call
// at any moment in addition to the scheduled tick.
func (p *Processor) ProcessMatches(ctx context.Context, dryRun bool) (Report, error) {
	log.Info("Starting match processing...", "dryRun", dryRun)
	startTime := time.Now()
	p.metrics.IncTicks()

	report, err := p.run(ctx, p.clock.Now(), dryRun)

	p.metrics.ObserveTickDuration(time.Since(startTime).Seconds())
	if err != nil {
		log.Error("Match processing stopped early", "error", err, "evaluated", report.Evaluated)
		return report, err
	}
	log.Info("Match processing finished.", "evaluated", report.Evaluated, "reminders", report.Reminders, "started", report.Started, "skipped", report.Skipped)
	return report, nil
}

// Evaluate applies every transition due at now. Matches are handled one after
// another in store order, with at most one transition each. A match whose
// start time has passed is started even if its reminder never went out.
func (p *Processor) Evaluate(ctx context.Context, now time.Time) (Report, error) {
	return p.run(ctx, now, false)
}

func (p *Processor) run(ctx context.Context, now time.Time, dryRun bool) (Report, error) {
	report := Report{At: now, DryRun: dryRun}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	listCtx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	matches, err := p.matches.List(listCtx, domain.StatusScheduled)
	cancel()
	if err != nil {
		p.metrics.IncStoreErrors()
		return report, err
	}
	if len(matches) == 0 {
		log.Debug("No matches to process.")
		return report, nil
	}

	for _, match := range matches {
		// Stop between matches, never inside one.
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Evaluated++
		p.metrics.IncMatchesEvaluated()

		kind, due := dueEvent(match, now)
		if !due {
			continue
		}
		if dryRun {
			log.Info("[Dry Run] Would apply transition", "matchID", match.ID, "event", kind)
			p.count(&report, kind)
			continue
		}
		if !p.processMatch(ctx, match.ID, now, &report) {
			report.Skipped++
		}
	}
	return report, nil
}

// dueEvent checks the elapsed start before the reminder window.
func dueEvent(m *domain.Match, now time.Time) (domain.EventKind, bool) {
	switch {
	case duel.StartDue(m, now):
		return domain.EventMatchStarting, true
	case duel.ReminderDue(m, now):
		return domain.EventReminder, true
	default:
		return "", false
	}
}

// processMatch re-evaluates the stored match, writes the transition, then
// dispatches its event. It reports false when the match was skipped.
func (p *Processor) processMatch(ctx context.Context, matchID string, now time.Time, report *Report) bool {
	var kind domain.EventKind
	storeCtx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	updated, changed, err := p.matches.Transition(storeCtx, matchID, func(m *domain.Match) (bool, error) {
		kind, _ = dueEvent(m, now)
		switch kind {
		case domain.EventMatchStarting:
			return true, duel.Activate(m, now)
		case domain.EventReminder:
			return true, duel.MarkReminderSent(m)
		}
		return false, nil
	})
	cancel()

	if err != nil {
		if domain.IsValidation(err) {
			log.Info("Match no longer eligible, skipping", "matchID", matchID, "reason", err)
		} else {
			p.metrics.IncStoreErrors()
			log.Error("Failed to apply transition, will retry next tick", "error", err, "matchID", matchID)
		}
		return false
	}
	if !changed {
		log.Debug("Match state did not change.", "matchID", matchID)
		return true
	}

	log.Info("Applied transition", "matchID", matchID, "event", kind, "scheduledAt", updated.ScheduledAt)
	p.count(report, kind)

	// The transition is already persisted; delivery runs to completion even
	// when the tick is being cancelled.
	p.events.Dispatch(context.WithoutCancel(ctx), domain.NewMatchEvent(kind, updated))
	return true
}

func (p *Processor) count(report *Report, kind domain.EventKind) {
	switch kind {
	case domain.EventMatchStarting:
		report.Started++
		if !report.DryRun {
			p.metrics.IncMatchesStarted()
		}
	case domain.EventReminder:
		report.Reminders++
		if !report.DryRun {
			p.metrics.IncRemindersSent()
		}
	}
}
