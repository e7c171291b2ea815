// Package notify shows transient toast notifications.
package notify

import (
	"sync"
	"time"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 3000 * time.Millisecond

// Notification is the toast state observed by renderers.
type Notification struct {
	Message string `json:"message"`
	Visible bool   `json:"visible"`
	// Seq increases with every Notify and lets renderers drop stale updates.
	Seq uint64 `json:"seq"`
}

// Notifier raises user-visible messages.
type Notifier interface {
	Notify(message string)
}

// Toast holds one message at a time. A new message replaces the current one
// and restarts the hide timer.
type Toast struct {
	mu       sync.Mutex
	duration time.Duration
	current  Notification
	timer    *time.Timer
	onChange func(Notification)
}

// New creates a toast. A non-positive duration uses DefaultDuration.
func New(duration time.Duration) *Toast {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Toast{duration: duration}
}

// OnChange registers fn to be called, outside the toast's lock, whenever a
// message is shown or hidden. The callback may run on a timer goroutine.
func (t *Toast) OnChange(fn func(Notification)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Notify shows message and (re)arms the hide timer.
func (t *Toast) Notify(message string) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.current = Notification{Message: message, Visible: true, Seq: t.current.Seq + 1}
	seq := t.current.Seq
	t.timer = time.AfterFunc(t.duration, func() { t.hide(seq) })
	n, fn := t.current, t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(n)
	}
}

// hide clears the message shown by Notify call seq. A newer message that
// raced the timer is left alone.
func (t *Toast) hide(seq uint64) {
	t.mu.Lock()
	if t.current.Seq != seq || !t.current.Visible {
		t.mu.Unlock()
		return
	}
	t.current.Visible = false
	t.timer = nil
	n, fn := t.current, t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(n)
	}
}

// Current returns the visible message, if any.
func (t *Toast) Current() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current.Visible {
		return "", false
	}
	return t.current.Message, true
}

// State returns the full toast state.
func (t *Toast) State() Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Dismiss hides the current message immediately.
func (t *Toast) Dismiss() {
	t.mu.Lock()
	seq := t.current.Seq
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()
	t.hide(seq)
}

// Stop cancels the pending hide timer without notifying.
func (t *Toast) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Discard is a Notifier that drops every message.
type Discard struct{}

func (Discard) Notify(string) {}
