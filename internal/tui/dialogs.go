package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rasulshaikhdev/techgear-hub/internal/checkout"
	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
	"github.com/rasulshaikhdev/techgear-hub/internal/modal"
)

// Dialog regions.
const (
	RegionProduct  = "product"
	RegionCart     = "cart"
	RegionWishlist = "wishlist"
	RegionCheckout = "checkout"
)

// Fixed dialog controls.
const (
	ctlProductAdd      = "product-add"
	ctlProductWishlist = "product-wishlist"
	ctlProductBuy      = "product-buy"
	ctlProductClose    = "product-close"
	ctlCartClear       = "cart-clear"
	ctlCartCheckout    = "cart-checkout"
	ctlCartClose       = "cart-close"
	ctlWishClose       = "wish-close"
	ctlCheckoutSubmit  = "checkout-submit"
	ctlCheckoutCancel  = "checkout-cancel"
)

func fieldControl(field string) string { return "checkout-" + field }

func lineControl(action string, productID int) string {
	return action + "-" + strconv.Itoa(productID)
}

func (m *Model) registerDialogs() {
	m.dialogs.Register(RegionProduct, modal.Controls{ctlProductAdd, ctlProductWishlist, ctlProductBuy, ctlProductClose})

	m.dialogs.Register(RegionCart, modal.RegionFunc(func() []string {
		var ids []string
		for _, l := range m.session.Storefront.Cart() {
			ids = append(ids,
				lineControl("cart-inc", l.ID),
				lineControl("cart-dec", l.ID),
				lineControl("cart-remove", l.ID),
			)
		}
		if len(ids) > 0 {
			ids = append(ids, ctlCartClear, ctlCartCheckout)
		}
		return append(ids, ctlCartClose)
	}))

	m.dialogs.Register(RegionWishlist, modal.RegionFunc(func() []string {
		var ids []string
		for _, e := range m.session.Storefront.Wishlist() {
			ids = append(ids, lineControl("wish-move", e.ID), lineControl("wish-remove", e.ID))
		}
		return append(ids, ctlWishClose)
	}))

	checkoutControls := make(modal.Controls, 0, len(domain.CheckoutFields)+2)
	for _, f := range domain.CheckoutFields {
		checkoutControls = append(checkoutControls, fieldControl(f))
	}
	m.dialogs.Register(RegionCheckout, append(checkoutControls, ctlCheckoutSubmit, ctlCheckoutCancel))
}

func (m *Model) openDialog(region string) {
	if err := m.dialogs.Open(region); err != nil && !errors.Is(err, modal.ErrAlreadyOpen) {
		m.logger.Error("failed to open dialog", slog.String("region", region), slog.String("error", err.Error()))
	}
	m.syncForm()
}

func (m *Model) closeDialog(region string) {
	if err := m.dialogs.Close(region); err != nil {
		m.logger.Debug("close ignored", slog.String("region", region), slog.String("error", err.Error()))
	}
	m.afterClose()
}

func (m *Model) afterClose() {
	m.syncForm()
	if m.dialogs.Active() == "" {
		m.syncCursor()
	}
}

func (m *Model) openProduct(productID int) {
	m.selected = productID
	m.openDialog(RegionProduct)
}

// buyNow adds one unit and goes straight to checkout.
func (m *Model) buyNow(productID int) {
	m.session.Storefront.AddToCart(m.ctx, productID, 1)
	if m.dialogs.IsOpen(RegionProduct) {
		m.closeDialog(RegionProduct)
	}
	m.openCheckout()
}

func (m *Model) openCheckout() {
	m.formResult = checkout.Result{}
	m.openDialog(RegionCheckout)
}

func (m *Model) updateDialog(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.dialogs.HandleKey(modal.KeyEscape)
		m.afterClose()
		return nil
	case tea.KeyTab:
		m.dialogs.HandleKey(modal.KeyTab)
		m.syncForm()
		return nil
	case tea.KeyShiftTab:
		m.dialogs.HandleKey(modal.KeyShiftTab)
		m.syncForm()
		return nil
	case tea.KeyEnter:
		m.activate(m.focus.Focused())
		return nil
	}

	if i := m.focusedField(); i >= 0 {
		var cmd tea.Cmd
		m.form[i], cmd = m.form[i].Update(msg)
		return cmd
	}
	return nil
}

// focusedField returns the index of the focused checkout field, or -1.
func (m *Model) focusedField() int {
	if m.dialogs.Active() != RegionCheckout {
		return -1
	}
	focused := m.focus.Focused()
	for i, f := range domain.CheckoutFields {
		if focused == fieldControl(f) {
			return i
		}
	}
	return -1
}

// syncForm gives the text cursor to the focused checkout field.
func (m *Model) syncForm() {
	active := m.focusedField()
	for i := range m.form {
		if i == active {
			m.form[i].Focus()
		} else {
			m.form[i].Blur()
		}
	}
}

// activate runs the focused control.
func (m *Model) activate(control string) {
	sf := m.session.Storefront

	switch control {
	case ctlProductAdd:
		sf.AddToCart(m.ctx, m.selected, 1)
		return
	case ctlProductWishlist:
		sf.ToggleWishlist(m.ctx, m.selected)
		return
	case ctlProductBuy:
		m.buyNow(m.selected)
		return
	case ctlProductClose:
		m.closeDialog(RegionProduct)
		return
	case ctlCartClear:
		sf.ClearCart(m.ctx)
		return
	case ctlCartCheckout:
		m.closeDialog(RegionCart)
		m.openCheckout()
		return
	case ctlCartClose:
		m.closeDialog(RegionCart)
		return
	case ctlWishClose:
		m.closeDialog(RegionWishlist)
		return
	case ctlCheckoutSubmit:
		m.submitCheckout()
		return
	case ctlCheckoutCancel:
		m.closeDialog(RegionCheckout)
		return
	}

	if i := m.focusedField(); i >= 0 {
		m.dialogs.HandleKey(modal.KeyTab)
		m.syncForm()
		return
	}

	action, id, ok := splitLineControl(control)
	if !ok {
		return
	}
	switch action {
	case "cart-inc":
		if i := domain.FindLine(sf.Cart(), id); i >= 0 {
			sf.SetQuantity(m.ctx, id, sf.Cart()[i].Quantity+1)
		}
	case "cart-dec":
		if i := domain.FindLine(sf.Cart(), id); i >= 0 {
			sf.SetQuantity(m.ctx, id, sf.Cart()[i].Quantity-1)
		}
	case "cart-remove":
		sf.RemoveFromCart(m.ctx, id)
	case "wish-move":
		sf.MoveWishlistItemToCart(m.ctx, id)
	case "wish-remove":
		sf.RemoveFromWishlist(m.ctx, id)
	}
}

func splitLineControl(control string) (string, int, bool) {
	i := strings.LastIndex(control, "-")
	if i < 0 {
		return "", 0, false
	}
	id, err := strconv.Atoi(control[i+1:])
	if err != nil {
		return "", 0, false
	}
	return control[:i], id, true
}

func (m *Model) checkoutForm() domain.CheckoutForm {
	return domain.CheckoutForm{
		Name:       m.form[0].Value(),
		Email:      m.form[1].Value(),
		Address:    m.form[2].Value(),
		CardNumber: m.form[3].Value(),
	}
}

// submitCheckout places the order or keeps the dialog open with the failing
// fields marked.
func (m *Model) submitCheckout() {
	order, res := m.session.Storefront.Checkout(m.ctx, m.checkoutForm())
	m.formResult = res
	if !res.OK() {
		return
	}

	m.lastOrder = &order
	for i := range m.form {
		m.form[i].SetValue("")
	}
	m.dialogs.CloseAll()
	m.afterClose()
}

func (m *Model) fieldError(field string) string {
	if msg, ok := m.formResult.Errors[field]; ok {
		return fmt.Sprintf("%s %s", fieldLabel(field), msg)
	}
	return ""
}
