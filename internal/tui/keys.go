package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the storefront key bindings.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Open        key.Binding
	AddToCart   key.Binding
	Wishlist    key.Binding
	BuyNow      key.Binding
	Search      key.Binding
	Category    key.Binding
	Sort        key.Binding
	MaxPrice    key.Binding
	Reset       key.Binding
	Cart        key.Binding
	WishlistBox key.Binding
	Theme       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		AddToCart:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to cart")),
		Wishlist:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wishlist")),
		BuyNow:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy now")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Category:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		MaxPrice:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "max price")),
		Reset:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset filters")),
		Cart:        key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "cart")),
		WishlistBox: key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "wishlist box")),
		Theme:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "dark mode")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.AddToCart, k.Search, k.Cart, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.AddToCart, k.Wishlist, k.BuyNow},
		{k.Search, k.Category, k.Sort, k.MaxPrice, k.Reset},
		{k.Cart, k.WishlistBox, k.Theme, k.Help, k.Quit},
	}
}
