package daemon

import "time"

// Debouncer coalesces bursts of triggers (e.g. filesystem events from one
// save operation) into a single firing after a quiet window.
type Debouncer struct {
	quiet time.Duration
	timer *time.Timer
	fire  chan struct{}
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{
		quiet: quiet,
		fire:  make(chan struct{}, 1),
	}
}

// Trigger (re)arms the quiet window. Safe to call from the event loop only;
// the Debouncer is not goroutine-safe by itself.
func (d *Debouncer) Trigger() {
	if d.timer == nil {
		d.timer = time.AfterFunc(d.quiet, func() {
			select {
			case d.fire <- struct{}{}:
			default:
			}
		})
		return
	}
	d.timer.Reset(d.quiet)
}

// C fires once per coalesced burst.
func (d *Debouncer) C() <-chan struct{} { return d.fire }

// Stop cancels any pending firing.
func (d *Debouncer) Stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
}
