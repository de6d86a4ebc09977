package processor

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/metrics"
)

// DefaultStoreTimeout bounds each store call made during a tick.
const DefaultStoreTimeout = 5 * time.Second

// Processor evaluates scheduled matches against the clock and applies due
// transitions.
type Processor struct {
	matches      Matches
	events       Dispatcher
	metrics      metrics.Metrics
	clock        clockwork.Clock
	storeTimeout time.Duration
}

// Report summarizes one evaluation pass.
type Report struct {
	At        time.Time `json:"at"`
	DryRun    bool      `json:"dry_run"`
	Evaluated int       `json:"evaluated"`
	Reminders int       `json:"reminders"`
	Started   int       `json:"started"`
	Skipped   int       `json:"skipped"`
}
