package modal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "github.com/rasulshaikhdev/techgear-hub/pkg/errors"
	"github.com/rasulshaikhdev/techgear-hub/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// manualScheduler queues delayed calls until the test runs them.
type manualScheduler struct {
	pending []func()
	stopped int
}

func (s *manualScheduler) schedule(_ time.Duration, fn func()) func() {
	idx := len(s.pending)
	s.pending = append(s.pending, fn)
	return func() {
		if s.pending[idx] != nil {
			s.pending[idx] = nil
			s.stopped++
		}
	}
}

func (s *manualScheduler) runAll() {
	for i, fn := range s.pending {
		if fn != nil {
			s.pending[i] = nil
			fn()
		}
	}
}

func newImmediate(focus Focus) *Controller {
	return New(focus, logger.Discard(), WithFocusDelay(0))
}

func TestController_TabWrapsInsideRegion(t *testing.T) {
	focus := NewTracker("open-cart", nil)
	c := newImmediate(focus)
	c.Register("dialog", Controls{"A", "B", "C"})

	require.NoError(t, c.Open("dialog"))
	assert.Equal(t, "A", focus.Focused())

	focus.SetFocus("C")
	assert.True(t, c.HandleKey(KeyTab))
	assert.Equal(t, "A", focus.Focused())

	assert.True(t, c.HandleKey(KeyShiftTab))
	assert.Equal(t, "C", focus.Focused())
}

func TestController_TabMovesSequentially(t *testing.T) {
	focus := NewTracker("", nil)
	c := newImmediate(focus)
	c.Register("dialog", Controls{"A", "B", "C"})
	require.NoError(t, c.Open("dialog"))

	var seen []string
	for i := 0; i < 4; i++ {
		c.HandleKey(KeyTab)
		seen = append(seen, focus.Focused())
	}
	assert.Equal(t, []string{"B", "C", "A", "B"}, seen)

	c.HandleKey(KeyShiftTab)
	assert.Equal(t, "A", focus.Focused())
}

func TestController_FocusOutsideRegionIsPulledBack(t *testing.T) {
	focus := NewTracker("", nil)
	c := newImmediate(focus)
	c.Register("dialog", Controls{"A", "B", "C"})
	require.NoError(t, c.Open("dialog"))

	focus.SetFocus("search")
	c.HandleKey(KeyTab)
	assert.Equal(t, "A", focus.Focused())

	focus.SetFocus("search")
	c.HandleKey(KeyShiftTab)
	assert.Equal(t, "C", focus.Focused())
}

func TestController_CloseRestoresFocus(t *testing.T) {
	focus := NewTracker("view-details-3", nil)
	c := newImmediate(focus)
	c.Register("product", Controls{"close", "add", "buy"})

	require.NoError(t, c.Open("product"))
	c.HandleKey(KeyTab)
	require.NoError(t, c.Close("product"))

	assert.Equal(t, "view-details-3", focus.Focused())
	assert.Equal(t, Closed, c.State("product"))
	assert.Zero(t, c.TrapCount())
}

func TestController_CloseSkipsRemovedControl(t *testing.T) {
	focus := NewTracker("remove-7", func(id string) bool { return id != "remove-7" })
	c := newImmediate(focus)
	c.Register("cart", Controls{"close", "checkout"})

	require.NoError(t, c.Open("cart"))
	require.NoError(t, c.Close("cart"))

	assert.Equal(t, "close", focus.Focused(), "focus stays put when the recorded control is gone")
}

func TestController_StateMachineErrors(t *testing.T) {
	c := newImmediate(NewTracker("", nil))
	c.Register("cart", Controls{"x"})

	err := c.Close("cart")
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	require.NoError(t, c.Open("cart"))
	assert.ErrorIs(t, c.Open("cart"), ErrAlreadyOpen)
	assert.Equal(t, 1, c.TrapCount())

	assert.ErrorIs(t, c.Open("nope"), ErrUnknownRegion)
	assert.ErrorIs(t, c.Open("nope"), apperrors.ErrNotFound)
}

func TestController_EscapeClosesAllMostRecentFirst(t *testing.T) {
	focus := NewTracker("cart-btn", nil)
	c := newImmediate(focus)
	c.Register("cart", Controls{"cart-close", "checkout-btn"})
	c.Register("checkout", Controls{"name", "email", "address", "card", "submit"})

	require.NoError(t, c.Open("cart"))
	focus.SetFocus("checkout-btn")
	require.NoError(t, c.Open("checkout"))
	assert.Equal(t, []string{"cart", "checkout"}, c.OpenRegions())
	assert.Equal(t, "checkout", c.Active())

	assert.True(t, c.HandleKey(KeyEscape))

	assert.Empty(t, c.OpenRegions())
	assert.Zero(t, c.TrapCount())
	assert.Equal(t, "cart-btn", focus.Focused())
	assert.False(t, c.HandleKey(KeyEscape), "escape with nothing open is not consumed")
}

func TestController_KeysRouteToMostRecentRegion(t *testing.T) {
	focus := NewTracker("", nil)
	c := newImmediate(focus)
	c.Register("cart", Controls{"cart-close", "checkout-btn"})
	c.Register("checkout", Controls{"name", "submit"})

	require.NoError(t, c.Open("cart"))
	require.NoError(t, c.Open("checkout"))

	c.HandleKey(KeyTab)
	assert.Equal(t, "submit", focus.Focused())
	c.HandleKey(KeyTab)
	assert.Equal(t, "name", focus.Focused())
}

func TestController_NoFocusablesDoesNotMoveFocus(t *testing.T) {
	focus := NewTracker("wishlist-btn", nil)
	c := newImmediate(focus)
	c.Register("empty", Controls{})

	require.NoError(t, c.Open("empty"))
	assert.Equal(t, "wishlist-btn", focus.Focused())
	assert.True(t, c.HandleKey(KeyTab))
	assert.Equal(t, "wishlist-btn", focus.Focused())
	assert.Empty(t, focus.History())
}

func TestController_NoOpenRegionIgnoresTab(t *testing.T) {
	c := newImmediate(NewTracker("", nil))
	assert.False(t, c.HandleKey(KeyTab))
}

func TestController_DelayedInitialFocus(t *testing.T) {
	focus := NewTracker("cart-btn", nil)
	sched := &manualScheduler{}
	c := New(focus, logger.Discard(), WithScheduler(sched.schedule))
	c.Register("cart", Controls{"cart-close", "checkout-btn"})

	require.NoError(t, c.Open("cart"))
	assert.Equal(t, "cart-btn", focus.Focused(), "focus waits for the delay")

	sched.runAll()
	assert.Equal(t, "cart-close", focus.Focused())
}

func TestController_ReopenDiscardsPendingFocus(t *testing.T) {
	focus := NewTracker("cart-btn", nil)
	sched := &manualScheduler{}
	c := New(focus, logger.Discard(), WithScheduler(sched.schedule))
	c.Register("cart", Controls{"cart-close", "checkout-btn"})

	require.NoError(t, c.Open("cart"))
	require.NoError(t, c.Close("cart"))
	require.NoError(t, c.Open("cart"))

	assert.Equal(t, 1, c.TrapCount(), "exactly one trap per open region")
	assert.Equal(t, 1, sched.stopped, "first open's delayed focus was cancelled")

	sched.runAll()
	assert.Equal(t, []string{"cart-btn", "cart-close"}, focus.History())
}

func TestController_StaleTrapReplacedOnOpen(t *testing.T) {
	focus := NewTracker("", nil)
	sched := &manualScheduler{}
	c := New(focus, logger.Discard(), WithScheduler(sched.schedule))
	c.Register("product", Controls{"close"})

	c.traps["product"] = &trap{region: "product", cancelFn: func() { sched.stopped++ }}

	require.NoError(t, c.Open("product"))
	assert.Equal(t, 1, c.TrapCount())
	assert.Equal(t, 1, sched.stopped)
}

func TestController_TimerScheduler(t *testing.T) {
	focus := NewTracker("", nil)
	c := New(focus, logger.Discard(), WithFocusDelay(5*time.Millisecond))
	c.Register("dialog", RegionFunc(func() []string { return []string{"first"} }))

	require.NoError(t, c.Open("dialog"))
	assert.Eventually(t, func() bool { return focus.Focused() == "first" }, time.Second, time.Millisecond)
	require.NoError(t, c.Close("dialog"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "closed", Closed.String())
}
