package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rasulshaikhdev/techgear-hub/internal/catalog"
	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.viewHeader(), m.viewControls()}
	if region := m.dialogs.Active(); region != "" {
		sections = append(sections, m.viewDialog(region))
	} else {
		sections = append(sections, m.viewGrid())
	}
	if msg, ok := m.session.Toast.Current(); ok {
		sections = append(sections, m.styles.Toast.Render(msg))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) viewHeader() string {
	t := m.session.Storefront.Totals()
	header := m.styles.Header
	if m.width > 0 {
		header = header.Width(m.width)
	}
	return header.Render(fmt.Sprintf("TechGear Hub   Cart (%d) %s   Wishlist (%d)",
		t.ItemCount, domain.FormatPrice(t.Total), t.WishlistCount))
}

func (m *Model) viewControls() string {
	category := m.filter.Category
	if category == "" {
		category = "All"
	}
	line := fmt.Sprintf("Category: %s  Sort: %s  Max price: %s",
		category, catalog.SortLabel(m.filter.Sort), priceLabel(m.filter.MaxPrice))

	search := m.search.View()
	if !m.searching && m.search.Value() == "" {
		search = m.styles.Muted.Render("/ Search products")
	}
	return lipgloss.JoinVertical(lipgloss.Left, search, m.styles.Muted.Render(line))
}

func (m *Model) viewGrid() string {
	if len(m.visible) == 0 {
		return m.styles.Muted.Render("No products match your filters.")
	}

	sf := m.session.Storefront
	var b strings.Builder
	for i, p := range m.visible {
		badges := ""
		if sf.InCart(p.ID) {
			badges += " [in cart]"
		}
		if sf.InWishlist(p.ID) {
			badges += " ♥"
		}
		row := fmt.Sprintf("%-52s %10s  %s%s",
			p.Name, m.styles.Price.Render(p.DisplayPrice()), domain.Stars(p.Rating), m.styles.Badge.Render(badges))
		if i == m.cursor {
			row = m.styles.Selected.Render(row)
		} else {
			row = "  " + m.styles.Body.Render(row)
		}
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) viewDialog(region string) string {
	var body string
	switch region {
	case RegionProduct:
		body = m.viewProduct()
	case RegionCart:
		body = m.viewCart()
	case RegionWishlist:
		body = m.viewWishlist()
	case RegionCheckout:
		body = m.viewCheckout()
	}
	return m.styles.Dialog.Render(body)
}

// button renders a control, highlighted when it holds focus.
func (m *Model) button(id, label string) string {
	if m.focus.Focused() == id {
		return m.styles.Focused.Render(label)
	}
	return "[" + label + "]"
}

func (m *Model) viewProduct() string {
	p, ok := m.session.Storefront.Product(m.selected)
	if !ok {
		return m.styles.Error.Render("Product not found")
	}
	wish := "Add to wishlist"
	if m.session.Storefront.InWishlist(p.ID) {
		wish = "Remove from wishlist"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(p.Name),
		m.styles.Muted.Render(p.Category+"  "+domain.Stars(p.Rating)),
		m.styles.Price.Render(p.DisplayPrice()),
		"",
		m.styles.Body.Render(p.Description),
		"",
		strings.Join([]string{
			m.button(ctlProductAdd, "Add to cart"),
			m.button(ctlProductWishlist, wish),
			m.button(ctlProductBuy, "Buy now"),
			m.button(ctlProductClose, "Close"),
		}, " "),
	)
}

func (m *Model) viewCart() string {
	sf := m.session.Storefront
	lines := sf.Cart()
	rows := []string{m.styles.Title.Render("Your cart")}
	if len(lines) == 0 {
		rows = append(rows, m.styles.Muted.Render("Your cart is empty."))
	}
	for _, l := range lines {
		rows = append(rows, fmt.Sprintf("%-40s %s × %d = %s  %s %s %s",
			l.Name, l.DisplayPrice(), l.Quantity, domain.FormatPrice(l.Subtotal()),
			m.button(lineControl("cart-inc", l.ID), "+"),
			m.button(lineControl("cart-dec", l.ID), "-"),
			m.button(lineControl("cart-remove", l.ID), "Remove"),
		))
	}

	t := sf.Totals()
	rows = append(rows, "", m.styles.Price.Render(fmt.Sprintf("Total: %s (%d items)", domain.FormatPrice(t.Total), t.ItemCount)))
	var buttons []string
	if len(lines) > 0 {
		buttons = append(buttons, m.button(ctlCartClear, "Clear"), m.button(ctlCartCheckout, "Checkout"))
	}
	buttons = append(buttons, m.button(ctlCartClose, "Close"))
	rows = append(rows, strings.Join(buttons, " "))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) viewWishlist() string {
	entries := m.session.Storefront.Wishlist()
	rows := []string{m.styles.Title.Render("Your wishlist")}
	if len(entries) == 0 {
		rows = append(rows, m.styles.Muted.Render("Your wishlist is empty."))
	}
	for _, e := range entries {
		rows = append(rows, fmt.Sprintf("%-40s %s  %s %s",
			e.Name, e.DisplayPrice(),
			m.button(lineControl("wish-move", e.ID), "Move to cart"),
			m.button(lineControl("wish-remove", e.ID), "Remove"),
		))
	}
	rows = append(rows, "", m.button(ctlWishClose, "Close"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) viewCheckout() string {
	t := m.session.Storefront.Totals()
	rows := []string{
		m.styles.Title.Render("Checkout"),
		m.styles.Muted.Render(fmt.Sprintf("%d items, %s", t.ItemCount, domain.FormatPrice(t.Total))),
		"",
	}
	for i, f := range domain.CheckoutFields {
		label := fieldLabel(f)
		if m.focus.Focused() == fieldControl(f) {
			label = m.styles.Title.Render(label)
		}
		rows = append(rows, label+": "+m.form[i].View())
		if msg := m.fieldError(f); msg != "" {
			rows = append(rows, m.styles.Error.Render("  "+msg))
		}
	}
	rows = append(rows, "", m.button(ctlCheckoutSubmit, "Place order")+" "+m.button(ctlCheckoutCancel, "Cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
