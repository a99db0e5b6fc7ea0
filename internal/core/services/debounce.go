package services

import (
	"strings"
	"sync"
	"time"

	"github.com/orbistack/kbsearch/internal/core/domain"
)

// Debouncer coalesces rapid successive query evaluations: only the
// last call within the quiet window fires. Superseded evaluations are
// discarded before they run.
type Debouncer struct {
	mu         sync.Mutex
	window     time.Duration
	timer      *time.Timer
	generation uint64
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = domain.DefaultSearchConfig().DebounceWindow
	}
	return &Debouncer{window: window}
}

// Schedule arranges for evaluate to run once query has been quiet for
// the window. A newer Schedule call supersedes a pending one. A blank
// query bypasses the window entirely: evaluate runs immediately, and
// any pending evaluation is cancelled first.
func (d *Debouncer) Schedule(query string, evaluate func()) {
	if strings.TrimSpace(query) == "" {
		d.Flush(evaluate)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	d.timer = time.AfterFunc(d.window, func() {
		if d.live(gen) {
			evaluate()
		}
	})
}

// Flush cancels any pending evaluation and runs evaluate now.
func (d *Debouncer) Flush(evaluate func()) {
	d.Cancel()
	evaluate()
}

// Cancel discards any pending evaluation.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}

// live reports whether gen is still the newest scheduled evaluation.
// Timer firing and Schedule can race; the generation check ensures a
// superseded callback never runs.
func (d *Debouncer) live(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.generation
}
