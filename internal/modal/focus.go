package modal

import "sync"

// Tracker is an in-memory Focus. Exists defaults to true for every id.
type Tracker struct {
	mu      sync.Mutex
	current string
	history []string
	exists  func(id string) bool
}

// NewTracker creates a tracker with focus on initial. exists may be nil.
func NewTracker(initial string, exists func(id string) bool) *Tracker {
	return &Tracker{current: initial, exists: exists}
}

func (t *Tracker) Focused() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *Tracker) SetFocus(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = id
	t.history = append(t.history, id)
}

func (t *Tracker) Exists(id string) bool {
	t.mu.Lock()
	fn := t.exists
	t.mu.Unlock()
	if fn == nil {
		return true
	}
	return fn(id)
}

// History returns every id focus was moved to, oldest first.
func (t *Tracker) History() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.history))
	copy(out, t.history)
	return out
}
