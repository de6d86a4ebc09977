package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/processor"
)

// Ticker is the work run on every tick.
type Ticker interface {
	ProcessMatches(ctx context.Context, dryRun bool) (processor.Report, error)
}

// Scheduler drives a Ticker at a fixed interval. Ticks never overlap; a tick
// that overruns the interval delays the next one.
type Scheduler struct {
	sched    gocron.Scheduler
	ticker   Ticker
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a Scheduler. The clock is shared with gocron so tests can
// substitute it.
func New(ticker Ticker, interval time.Duration, clock clockwork.Clock) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive, got %s", interval)
	}
	sched, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLogger(gocronLogger{l: log.Default().WithPrefix("scheduler")}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{sched: sched, ticker: ticker, interval: interval}, nil
}

// Start registers the tick job and starts the scheduler. The first tick runs
// immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	tickCtx, cancel := context.WithCancel(ctx)

	_, err := s.sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			if _, err := s.ticker.ProcessMatches(tickCtx, false); err != nil {
				log.Error("Scheduled tick failed", "error", err)
			}
		}),
		gocron.WithName("process-matches"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to register tick job: %w", err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.sched.Start()
	log.Info("Scheduler started", "interval", s.interval)
	return nil
}

// Stop prevents further ticks and waits for a running tick to finish its
// current match.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	log.Info("Scheduler stopped")
	return nil
}

// gocronLogger bridges gocron's logger onto charmbracelet/log.
type gocronLogger struct {
	l *log.Logger
}

func (g gocronLogger) Debug(msg string, args ...any) { g.l.Debug(msg, args...) }
func (g gocronLogger) Info(msg string, args ...any)  { g.l.Info(msg, args...) }
func (g gocronLogger) Warn(msg string, args ...any)  { g.l.Warn(msg, args...) }
func (g gocronLogger) Error(msg string, args ...any) { g.l.Error(msg, args...) }
