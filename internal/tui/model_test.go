package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasulshaikhdev/techgear-hub/internal/catalog"
	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
	"github.com/rasulshaikhdev/techgear-hub/internal/notify"
	"github.com/rasulshaikhdev/techgear-hub/internal/repository/memory"
	"github.com/rasulshaikhdev/techgear-hub/internal/service"
	"github.com/rasulshaikhdev/techgear-hub/pkg/logger"
)

type harness struct {
	m    *Model
	kv   *memory.Store
	sent chan tea.Msg
}

func newHarness(t *testing.T, debounce, focusDelay time.Duration) *harness {
	t.Helper()
	ctx := context.Background()
	kv := memory.New()
	cat := catalog.Default()

	toast := notify.New(time.Hour)
	t.Cleanup(toast.Stop)
	sess := &service.Session{
		ID:    service.DefaultSession,
		Toast: toast,
		Storefront: service.NewStorefront(ctx, service.Options{
			Catalog: cat, Store: kv, Notifier: toast,
		}),
		Preferences: service.NewPreferences(kv, logger.Discard()),
	}

	m := New(ctx, Options{
		Session:    sess,
		Catalog:    cat,
		Logger:     logger.Discard(),
		Debounce:   debounce,
		FocusDelay: focusDelay,
	})
	sent := make(chan tea.Msg, 16)
	m.send = func(msg tea.Msg) { sent <- msg }
	t.Cleanup(m.Close)
	return &harness{m: m, kv: kv, sent: sent}
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		h.m.Update(msg)
	}
}

func (h *harness) visibleIDs() []int {
	ids := make([]int, len(h.m.visible))
	for i, p := range h.m.visible {
		ids[i] = p.ID
	}
	return ids
}

func (h *harness) next(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case msg := <-h.sent:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}

func TestGrid_NavigateAndAddToCart(t *testing.T) {
	h := newHarness(t, 0, 0)

	assert.Equal(t, "card-1", h.m.focus.Focused())
	h.press("down", "down", "a", "a")

	cart := h.m.session.Storefront.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].ID)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, "card-3", h.m.focus.Focused())
	assert.Contains(t, h.m.View(), "Gaming Keyboard added to cart")
}

func TestGrid_FiltersApplyImmediately(t *testing.T) {
	h := newHarness(t, 0, 0)

	h.press("c")
	assert.Equal(t, "Audio", h.m.filter.Category)
	assert.Equal(t, []int{1, 6}, h.visibleIDs())

	h.press("x", "s")
	assert.Equal(t, catalog.SortPriceAsc, h.m.filter.Sort)
	assert.Equal(t, []int{5, 7, 3, 1, 8, 2, 4, 6}, h.visibleIDs())

	h.press("p", "p")
	assert.Equal(t, []int{5, 7, 3, 1}, h.visibleIDs())
	assert.Contains(t, h.m.View(), "≤ $100.00")
}

func TestGrid_CursorFollowsProductAcrossFilters(t *testing.T) {
	h := newHarness(t, 0, 0)
	h.press("down", "down", "down", "down", "down")
	require.Equal(t, 6, h.m.visible[h.m.cursor].ID)

	h.press("c")

	assert.Equal(t, 6, h.m.visible[h.m.cursor].ID)
}

func TestSearch_IsDebounced(t *testing.T) {
	h := newHarness(t, 10*time.Millisecond, 0)

	h.press("/", "m", "o")
	assert.Len(t, h.m.visible, 8, "typing does not filter until the window passes")

	msg := h.next(t)
	require.IsType(t, searchMsg{}, msg)
	h.m.Update(msg)
	assert.Equal(t, []int{4, 6, 7}, h.visibleIDs())

	select {
	case extra := <-h.sent:
		t.Fatalf("only the last keystroke should fire, got %#v", extra)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestSearch_EnterAppliesImmediately(t *testing.T) {
	h := newHarness(t, time.Hour, 0)

	h.press("/", "ssd", "enter")

	assert.False(t, h.m.searching)
	assert.Equal(t, []int{8}, h.visibleIDs())
}

func TestProductDialog_FocusTrap(t *testing.T) {
	h := newHarness(t, 0, 0)
	h.press("down", "enter")

	require.Equal(t, RegionProduct, h.m.dialogs.Active())
	assert.Equal(t, 2, h.m.selected)
	assert.Equal(t, ctlProductAdd, h.m.focus.Focused())

	h.press("tab")
	assert.Equal(t, ctlProductWishlist, h.m.focus.Focused())
	h.press("shift+tab", "shift+tab")
	assert.Equal(t, ctlProductClose, h.m.focus.Focused(), "shift+tab wraps to the last control")
	h.press("tab")
	assert.Equal(t, ctlProductAdd, h.m.focus.Focused(), "tab wraps to the first control")

	h.press("enter")
	assert.True(t, h.m.session.Storefront.InCart(2))
	assert.Contains(t, h.m.View(), "Smartwatch Pro")

	h.press("esc")
	assert.Empty(t, h.m.dialogs.Active())
	assert.Equal(t, "card-2", h.m.focus.Focused())
	assert.Zero(t, h.m.dialogs.TrapCount())
}

func TestProductDialog_DelayedInitialFocus(t *testing.T) {
	h := newHarness(t, 0, 5*time.Millisecond)
	h.press("enter")

	assert.Equal(t, "card-1", h.m.focus.Focused())

	msg := h.next(t)
	require.IsType(t, focusMsg{}, msg)
	h.m.Update(msg)
	assert.Equal(t, ctlProductAdd, h.m.focus.Focused())
}

func TestCartDialog_Controls(t *testing.T) {
	h := newHarness(t, 0, 0)
	h.press("down", "down", "a", "C")

	require.Equal(t, RegionCart, h.m.dialogs.Active())
	assert.Equal(t, "cart-inc-3", h.m.focus.Focused())

	h.press("enter")
	assert.Equal(t, 2, h.m.session.Storefront.Totals().ItemCount)

	h.press("tab", "enter", "enter")
	assert.Equal(t, 1, h.m.session.Storefront.Totals().ItemCount, "quantity never drops below one")

	h.press("tab", "enter")
	assert.Empty(t, h.m.session.Storefront.Cart())

	h.press("tab")
	assert.Equal(t, ctlCartClose, h.m.focus.Focused())
	h.press("enter")
	assert.Empty(t, h.m.dialogs.Active())
	assert.Equal(t, "card-3", h.m.focus.Focused())
}

func TestCartDialog_CheckoutReplacesCart(t *testing.T) {
	h := newHarness(t, 0, 0)
	h.press("down", "down", "a", "C")
	require.Equal(t, RegionCart, h.m.dialogs.Active())

	h.press("tab", "tab", "tab", "tab")
	require.Equal(t, ctlCartCheckout, h.m.focus.Focused())
	h.press("enter")

	assert.Equal(t, []string{RegionCheckout}, h.m.dialogs.OpenRegions(), "the cart closes before checkout opens")
	assert.Equal(t, fieldControl(domain.FieldName), h.m.focus.Focused())

	h.press("esc")
	assert.Empty(t, h.m.dialogs.Active())
	assert.Equal(t, "card-3", h.m.focus.Focused())
}

func TestWishlistDialog_MoveToCart(t *testing.T) {
	h := newHarness(t, 0, 0)
	h.press("w", "W")

	require.Equal(t, RegionWishlist, h.m.dialogs.Active())
	assert.Equal(t, "wish-move-1", h.m.focus.Focused())

	h.press("enter")

	totals := h.m.session.Storefront.Totals()
	assert.Equal(t, 1, totals.ItemCount)
	assert.Zero(t, totals.WishlistCount)
}

func TestBuyNow_Checkout(t *testing.T) {
	h := newHarness(t, 0, 0)
	h.press("down", "down", "b")

	require.Equal(t, RegionCheckout, h.m.dialogs.Active())
	assert.True(t, h.m.session.Storefront.InCart(3))
	assert.Equal(t, fieldControl(domain.FieldName), h.m.focus.Focused())

	h.press("Jo", "tab", "bad-email", "tab", "1 St", "tab", "4111 1111 1111 1111", "tab")
	require.Equal(t, ctlCheckoutSubmit, h.m.focus.Focused())
	h.press("enter")

	assert.Equal(t, RegionCheckout, h.m.dialogs.Active(), "invalid form keeps the dialog open")
	assert.Contains(t, h.m.formResult.Errors, domain.FieldEmail)
	assert.True(t, h.m.session.Storefront.InCart(3))
	assert.Contains(t, h.m.View(), "Email")

	h.m.form[1].SetValue("a@b.co")
	h.press("enter")

	assert.Empty(t, h.m.dialogs.Active())
	assert.Empty(t, h.m.session.Storefront.Cart())
	require.NotNil(t, h.m.lastOrder)
	assert.Equal(t, "a@b.co", h.m.lastOrder.Email)
	for _, in := range h.m.form {
		assert.Empty(t, in.Value(), "form is cleared after a successful order")
	}
	msg, ok := h.m.session.Toast.Current()
	require.True(t, ok)
	assert.Equal(t, service.MsgOrderPlaced, msg)
}

func TestCheckoutDialog_TypingQDoesNotQuit(t *testing.T) {
	h := newHarness(t, 0, 0)
	h.press("b", "q")

	assert.False(t, h.m.quitting)
	assert.Equal(t, "q", h.m.form[0].Value())
}

func TestTheme_TogglePersists(t *testing.T) {
	h := newHarness(t, 0, 0)
	require.False(t, h.m.dark)

	h.press("t")

	assert.True(t, h.m.dark)
	assert.True(t, h.m.styles.Theme.IsDark)
	raw, err := h.kv.Get(context.Background(), "darkMode")
	require.NoError(t, err)
	assert.Equal(t, "true", raw)

	restored := New(context.Background(), Options{Session: h.m.session, Catalog: h.m.catalog, Logger: logger.Discard()})
	assert.True(t, restored.dark)
}

func TestQuit(t *testing.T) {
	h := newHarness(t, 0, 0)

	_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.True(t, h.m.quitting)
	assert.Empty(t, strings.TrimSpace(h.m.View()))
}
