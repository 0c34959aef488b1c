// Package autosave defers writes until input has been idle for a delay.
package autosave

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// saveTimeout bounds a single deferred save.
const saveTimeout = 5 * time.Second

// SaveFunc performs the deferred write.
type SaveFunc func(ctx context.Context) error

// SavedMsg is a tea.Msg sent after a deferred save ran.
type SavedMsg struct {
	Label string
	Err   error
}

// Debouncer holds at most one pending save. Scheduling a new save
// cancels and replaces the pending one. Safe for concurrent use.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	label   string
	fn      SaveFunc
	gen     uint64
	stopped bool

	// running tracks timer-driven saves in progress so Stop can wait.
	running sync.WaitGroup

	resultCh chan SavedMsg
}

// New creates a Debouncer that waits delay after the last Schedule.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:    delay,
		resultCh: make(chan SavedMsg, 4),
	}
}

// Schedule replaces any pending save with fn, to run after the delay.
// It is a no-op after Stop.
func (d *Debouncer) Schedule(label string, fn SaveFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.label = label
	d.fn = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending save, reporting whether there was one.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.takeLocked() != nil
}

// Pending reports whether a save is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fn != nil
}

// Flush runs the pending save now, on the caller's goroutine.
// It returns nil when nothing was pending.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.mu.Lock()
	fn := d.takeLocked()
	d.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Stop flushes the pending save, waits for a timer-driven save that is
// already running, and refuses further scheduling.
func (d *Debouncer) Stop(ctx context.Context) error {
	err := d.Flush(ctx)
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.running.Wait()
	return err
}

// WaitForResult returns a tea.Cmd that blocks until the next timer-driven
// save finishes. Re-issue it after handling each SavedMsg.
func (d *Debouncer) WaitForResult() tea.Cmd {
	return func() tea.Msg {
		return <-d.resultCh
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		// superseded by a later Schedule or Cancel
		d.mu.Unlock()
		return
	}
	label := d.label
	fn := d.takeLocked()
	if fn == nil {
		d.mu.Unlock()
		return
	}
	d.running.Add(1)
	d.mu.Unlock()
	defer d.running.Done()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	err := fn(ctx)

	select {
	case d.resultCh <- SavedMsg{Label: label, Err: err}:
	default:
		// Drop if nobody is listening.
	}
}

// takeLocked clears the slot and returns the pending func, if any.
func (d *Debouncer) takeLocked() SaveFunc {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.fn
	d.fn = nil
	d.label = ""
	d.gen++
	return fn
}
