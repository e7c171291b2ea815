// Package modal tracks which dialog regions are open and confines keyboard
// focus to the most recently opened one.
package modal

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	apperrors "github.com/rasulshaikhdev/techgear-hub/pkg/errors"
)

// DefaultFocusDelay is the wait before a newly opened region's first control
// receives focus, leaving time for the region to render.
const DefaultFocusDelay = 50 * time.Millisecond

var (
	ErrAlreadyOpen   = fmt.Errorf("%w: region already open", apperrors.ErrConflict)
	ErrNotOpen       = fmt.Errorf("%w: region not open", apperrors.ErrConflict)
	ErrUnknownRegion = fmt.Errorf("%w: unknown region", apperrors.ErrNotFound)
)

// State is a region's lifecycle state.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Key is a navigation key the controller reacts to.
type Key int

const (
	KeyTab Key = iota
	KeyShiftTab
	KeyEscape
)

// Focus is the environment that owns keyboard focus.
type Focus interface {
	// Focused returns the id of the focused control, or "" when none is.
	Focused() string
	// SetFocus moves focus to the control with the given id.
	SetFocus(id string)
	// Exists reports whether a control with the given id is still present.
	Exists(id string) bool
}

// Region reports a dialog's focusable controls in tab order. The list is
// read on every key so regions whose content changes stay trapped correctly.
type Region interface {
	Focusables() []string
}

// Controls is a Region with a fixed list of controls.
type Controls []string

func (c Controls) Focusables() []string { return c }

// RegionFunc adapts a function to Region.
type RegionFunc func() []string

func (f RegionFunc) Focusables() []string { return f() }

// Scheduler runs fn after d and returns a function that cancels it.
type Scheduler func(d time.Duration, fn func()) (cancel func())

// TimerScheduler schedules with time.AfterFunc.
func TimerScheduler(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// trap is the registration that confines focus to one open region.
type trap struct {
	region   string
	restore  string
	gen      uint64
	cancelFn func()
}

func (t *trap) detach() {
	if t.cancelFn != nil {
		t.cancelFn()
		t.cancelFn = nil
	}
}

// Controller owns the per-region state machine and the trap registry.
type Controller struct {
	mu       sync.Mutex
	focus    Focus
	regions  map[string]Region
	traps    map[string]*trap
	order    []string
	delay    time.Duration
	schedule Scheduler
	gen      uint64
	logger   *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithFocusDelay sets the initial focus delay. Zero focuses immediately.
func WithFocusDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithScheduler replaces the timer used for delayed focus.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.schedule = s }
}

// New creates a controller over focus.
func New(focus Focus, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		focus:    focus,
		regions:  make(map[string]Region),
		traps:    make(map[string]*trap),
		delay:    DefaultFocusDelay,
		schedule: TimerScheduler,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register declares a region. Registering an id again replaces its controls.
func (c *Controller) Register(id string, r Region) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regions[id] = r
}

// Open transitions id from Closed to Open, remembers the focused control for
// restoration and traps focus inside the region. The first control is
// focused after the configured delay; a region without controls leaves focus
// where it is.
func (c *Controller) Open(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.regions[id]; !ok {
		return fmt.Errorf("open %q: %w", id, ErrUnknownRegion)
	}
	if slices.Contains(c.order, id) {
		return fmt.Errorf("open %q: %w", id, ErrAlreadyOpen)
	}

	// A leftover registration would trap focus twice.
	if stale, ok := c.traps[id]; ok {
		stale.detach()
		delete(c.traps, id)
		c.logger.Warn("discarded stale focus trap", slog.String("region", id))
	}

	c.gen++
	t := &trap{region: id, restore: c.focus.Focused(), gen: c.gen}
	c.traps[id] = t
	c.order = append(c.order, id)

	if c.delay <= 0 {
		c.focusFirstLocked(id)
	} else {
		gen := t.gen
		t.cancelFn = c.schedule(c.delay, func() { c.initialFocus(id, gen) })
	}

	c.logger.Debug("region opened", slog.String("region", id), slog.String("restore", t.restore))
	return nil
}

func (c *Controller) initialFocus(id string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.traps[id]
	if !ok || t.gen != gen {
		return
	}
	t.cancelFn = nil
	c.focusFirstLocked(id)
}

func (c *Controller) focusFirstLocked(id string) {
	controls := c.regions[id].Focusables()
	if len(controls) == 0 {
		return
	}
	c.focus.SetFocus(controls[0])
}

// Close transitions id from Open to Closed, detaches its trap and restores
// focus to the control recorded at open time if it still exists.
func (c *Controller) Close(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked(id)
}

func (c *Controller) closeLocked(id string) error {
	idx := slices.Index(c.order, id)
	if idx < 0 {
		return fmt.Errorf("close %q: %w", id, ErrNotOpen)
	}
	c.order = slices.Delete(c.order, idx, idx+1)

	t := c.traps[id]
	delete(c.traps, id)
	if t == nil {
		return nil
	}
	t.detach()

	if t.restore != "" && c.focus.Exists(t.restore) {
		c.focus.SetFocus(t.restore)
	}
	c.logger.Debug("region closed", slog.String("region", id))
	return nil
}

// CloseAll closes every open region, most recently opened first, and returns
// the ids it closed.
func (c *Controller) CloseAll() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	closed := make([]string, 0, len(c.order))
	for len(c.order) > 0 {
		id := c.order[len(c.order)-1]
		_ = c.closeLocked(id)
		closed = append(closed, id)
	}
	return closed
}

// HandleKey applies a navigation key to the active region and reports
// whether the key was consumed. Tab on the last control wraps to the first
// and Shift-Tab on the first wraps to the last. Escape closes every open
// region.
func (c *Controller) HandleKey(k Key) bool {
	if k == KeyEscape {
		return len(c.CloseAll()) > 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.order) == 0 {
		return false
	}
	active := c.order[len(c.order)-1]
	controls := c.regions[active].Focusables()
	if len(controls) == 0 {
		return true
	}

	// A pending initial focus is superseded by explicit navigation.
	if t := c.traps[active]; t != nil {
		t.detach()
	}

	cur := slices.Index(controls, c.focus.Focused())
	var next int
	switch k {
	case KeyTab:
		next = (cur + 1) % len(controls)
	case KeyShiftTab:
		if cur <= 0 {
			next = len(controls) - 1
		} else {
			next = cur - 1
		}
	default:
		return false
	}
	c.focus.SetFocus(controls[next])
	return true
}

// IsOpen reports whether id is open.
func (c *Controller) IsOpen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.order, id)
}

// State returns the state of id.
func (c *Controller) State(id string) State {
	if c.IsOpen(id) {
		return Open
	}
	return Closed
}

// Active returns the most recently opened region, or "" when none is open.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) == 0 {
		return ""
	}
	return c.order[len(c.order)-1]
}

// OpenRegions returns the open regions in the order they were opened.
func (c *Controller) OpenRegions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}

// TrapCount returns the number of registered focus traps.
func (c *Controller) TrapCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.traps)
}
