package tui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rasulshaikhdev/techgear-hub/internal/catalog"
	"github.com/rasulshaikhdev/techgear-hub/internal/checkout"
	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
	"github.com/rasulshaikhdev/techgear-hub/internal/modal"
	"github.com/rasulshaikhdev/techgear-hub/internal/notify"
	"github.com/rasulshaikhdev/techgear-hub/internal/service"
)

// PriceCeilings are the max price steps cycled by the price key. Zero means
// no ceiling.
var PriceCeilings = []decimal.Decimal{
	decimal.Zero,
	decimal.NewFromInt(50),
	decimal.NewFromInt(100),
	decimal.NewFromInt(200),
	decimal.NewFromInt(500),
}

// searchMsg carries a debounced search query.
type searchMsg struct{ query string }

// focusMsg runs a delayed focus move on the update goroutine.
type focusMsg struct{ fn func() }

// toastMsg reports a toast change so the view is redrawn.
type toastMsg notify.Notification

// Options configures a Model. Session and Catalog are required.
type Options struct {
	Session    *service.Session
	Catalog    *catalog.Catalog
	Logger     *slog.Logger
	Debounce   time.Duration
	FocusDelay time.Duration
}

// Model is the bubbletea model of the storefront.
type Model struct {
	ctx     context.Context
	session *service.Session
	catalog *catalog.Catalog
	logger  *slog.Logger

	keys   KeyMap
	help   help.Model
	styles Styles
	dark   bool

	search    textinput.Model
	searching bool
	debouncer *catalog.Debouncer
	filter    catalog.Filter
	visible   []domain.Product
	cursor    int

	focus    *modal.Tracker
	dialogs  *modal.Controller
	selected int

	form       []textinput.Model
	formResult checkout.Result
	lastOrder  *domain.Order

	send     func(tea.Msg)
	width    int
	quitting bool
}

// New builds the model and restores the dark mode preference.
func New(ctx context.Context, opts Options) *Model {
	m := &Model{
		ctx:       ctx,
		session:   opts.Session,
		catalog:   opts.Catalog,
		logger:    opts.Logger,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		debouncer: catalog.NewDebouncer(opts.Debounce),
		send:      func(tea.Msg) {},
	}

	m.search = textinput.New()
	m.search.Placeholder = "Search products"
	m.search.Prompt = "/ "
	m.search.CharLimit = 64

	m.form = make([]textinput.Model, len(domain.CheckoutFields))
	for i, f := range domain.CheckoutFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldLabel(f)
		ti.CharLimit = 128
		m.form[i] = ti
	}

	m.focus = modal.NewTracker("", m.controlExists)
	m.dialogs = modal.New(m.focus, opts.Logger,
		modal.WithFocusDelay(opts.FocusDelay),
		modal.WithScheduler(m.scheduleFocus),
	)
	m.registerDialogs()

	m.dark = m.session.Preferences.DarkMode(ctx)
	m.styles = NewStyles(ThemeFor(m.dark))
	m.refresh()
	return m
}

// scheduleFocus defers fn and then hands it to the update loop, so focus only
// ever moves on the goroutine that renders.
func (m *Model) scheduleFocus(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { m.send(focusMsg{fn: fn}) })
	return func() { t.Stop() }
}

func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("TechGear Hub")
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case searchMsg:
		m.filter.Query = msg.query
		m.refresh()
		return m, nil

	case focusMsg:
		msg.fn()
		m.syncForm()
		return m, nil

	case toastMsg:
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.dialogs.Active() != "" {
			return m, m.updateDialog(msg)
		}
		if m.searching {
			return m, m.updateSearch(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.debouncer.Cancel()
	return m, tea.Quit
}

// Close cancels pending timers.
func (m *Model) Close() {
	m.debouncer.Cancel()
	m.dialogs.CloseAll()
}

func (m *Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sf := m.session.Storefront

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Open):
		if p, ok := m.current(); ok {
			m.openProduct(p.ID)
		}
	case key.Matches(msg, m.keys.AddToCart):
		if p, ok := m.current(); ok {
			sf.AddToCart(m.ctx, p.ID, 1)
		}
	case key.Matches(msg, m.keys.Wishlist):
		if p, ok := m.current(); ok {
			sf.ToggleWishlist(m.ctx, p.ID)
		}
	case key.Matches(msg, m.keys.BuyNow):
		if p, ok := m.current(); ok {
			m.buyNow(p.ID)
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Category):
		m.filter.Category = cycle(append([]string{""}, m.catalog.Categories()...), m.filter.Category)
		m.applyNow()
	case key.Matches(msg, m.keys.Sort):
		m.filter.Sort = cycle(catalog.SortKeys, m.filter.Sort)
		m.applyNow()
	case key.Matches(msg, m.keys.MaxPrice):
		m.filter.MaxPrice = cycleDecimal(PriceCeilings, m.filter.MaxPrice)
		m.applyNow()
	case key.Matches(msg, m.keys.Reset):
		m.search.SetValue("")
		m.filter = catalog.Filter{}
		m.applyNow()
	case key.Matches(msg, m.keys.Cart):
		m.openDialog(RegionCart)
	case key.Matches(msg, m.keys.WishlistBox):
		m.openDialog(RegionWishlist)
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.applyNow()
		return nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		m.debouncer.Debounce(func() { m.send(searchMsg{query: q}) })
	}
	return cmd
}

// applyNow applies the current controls without waiting for the debounce
// window, discarding any pending search update.
func (m *Model) applyNow() {
	m.debouncer.Immediate(func() {
		m.filter.Query = m.search.Value()
		m.refresh()
	})
}

// refresh recomputes the visible products and keeps the cursor on the same
// product when it is still listed.
func (m *Model) refresh() {
	prev, hadPrev := m.current()
	m.visible = m.catalog.Apply(m.filter)

	m.cursor = 0
	if hadPrev {
		if i := slices.IndexFunc(m.visible, func(p domain.Product) bool { return p.ID == prev.ID }); i >= 0 {
			m.cursor = i
		}
	}
	if p, ok := m.current(); ok && m.dialogs.Active() == "" {
		m.focus.SetFocus(cardID(p.ID))
	}
}

func (m *Model) current() (domain.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return domain.Product{}, false
	}
	return m.visible[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	m.focus.SetFocus(cardID(m.visible[m.cursor].ID))
}

// syncCursor follows focus back onto the grid after a dialog closes.
func (m *Model) syncCursor() {
	id, ok := strings.CutPrefix(m.focus.Focused(), "card-")
	if !ok {
		return
	}
	pid, err := strconv.Atoi(id)
	if err != nil {
		return
	}
	if i := slices.IndexFunc(m.visible, func(p domain.Product) bool { return p.ID == pid }); i >= 0 {
		m.cursor = i
	}
}

func (m *Model) toggleTheme() {
	on, err := m.session.Preferences.ToggleDarkMode(m.ctx)
	if err != nil {
		m.logger.Error("failed to save theme", slog.String("error", err.Error()))
	}
	m.dark = on
	m.styles = NewStyles(ThemeFor(on))
}

func cardID(productID int) string {
	return "card-" + strconv.Itoa(productID)
}

// controlExists reports whether focus can return to id. Grid cards exist
// while their product is listed.
func (m *Model) controlExists(id string) bool {
	raw, ok := strings.CutPrefix(id, "card-")
	if !ok {
		return true
	}
	pid, err := strconv.Atoi(raw)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(m.visible, func(p domain.Product) bool { return p.ID == pid })
}

func cycle(values []string, cur string) string {
	i := slices.Index(values, cur)
	return values[(i+1)%len(values)]
}

func cycleDecimal(values []decimal.Decimal, cur decimal.Decimal) decimal.Decimal {
	i := slices.IndexFunc(values, func(d decimal.Decimal) bool { return d.Equal(cur) })
	return values[(i+1)%len(values)]
}

func fieldLabel(field string) string {
	switch field {
	case domain.FieldName:
		return "Full name"
	case domain.FieldEmail:
		return "Email"
	case domain.FieldAddress:
		return "Shipping address"
	case domain.FieldCardNumber:
		return "Card number"
	default:
		return field
	}
}

func priceLabel(d decimal.Decimal) string {
	if d.IsZero() {
		return "Any"
	}
	return fmt.Sprintf("≤ %s", domain.FormatPrice(d))
}
