package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rasulshaikhdev/techgear-hub/internal/catalog"
	"github.com/rasulshaikhdev/techgear-hub/internal/checkout"
	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
	"github.com/rasulshaikhdev/techgear-hub/internal/notify"
	"github.com/rasulshaikhdev/techgear-hub/internal/repository"
	"github.com/rasulshaikhdev/techgear-hub/pkg/logger"
)

// Toast messages.
const (
	MsgRemovedFromCart     = "Removed from cart"
	MsgAddedToWishlist     = "Added to wishlist"
	MsgRemovedFromWishlist = "Removed from wishlist"
	MsgOrderPlaced         = "Order placed successfully!"
)

// AddedToCartMessage is the toast raised when a product is added to the cart.
func AddedToCartMessage(name string) string {
	return name + " added to cart"
}

// EventPublisher receives collection snapshots after they are persisted.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, sessionID string, cart []domain.CartLine) error
	PublishWishlistUpdated(ctx context.Context, sessionID string, wishlist []domain.WishlistEntry) error
	PublishOrderPlaced(ctx context.Context, sessionID string, order domain.Order) error
}

// Options configures a Storefront. Catalog and Store are required.
type Options struct {
	SessionID string
	Catalog   *catalog.Catalog
	Store     repository.KV
	Notifier  notify.Notifier
	Events    EventPublisher
	Logger    *slog.Logger

	Now        func() time.Time
	NewOrderID func() string
}

// Storefront owns one shopper's cart and wishlist. Every mutation is written
// through to the store before it returns, and returns the recomputed totals.
// Unknown product ids are ignored without side effects. A failed write is
// logged and the in-memory change stands.
type Storefront struct {
	mu sync.Mutex

	sessionID string
	catalog   *catalog.Catalog
	cartRepo  *repository.Collection[domain.CartLine]
	wishRepo  *repository.Collection[domain.WishlistEntry]
	notifier  notify.Notifier
	events    EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	cart     []domain.CartLine
	wishlist []domain.WishlistEntry
}

// NewStorefront restores the cart and wishlist from the store. Absent or
// corrupt collections start empty.
func NewStorefront(ctx context.Context, opts Options) *Storefront {
	if opts.SessionID == "" {
		opts.SessionID = DefaultSession
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewOrderID == nil {
		opts.NewOrderID = func() string { return uuid.New().String() }
	}

	log := opts.Logger.With(slog.String("session_id", opts.SessionID))
	s := &Storefront{
		sessionID: opts.SessionID,
		catalog:   opts.Catalog,
		cartRepo:  repository.NewCollection[domain.CartLine](opts.Store, repository.KeyCart, log),
		wishRepo:  repository.NewCollection[domain.WishlistEntry](opts.Store, repository.KeyWishlist, log),
		notifier:  opts.Notifier,
		events:    opts.Events,
		logger:    log,
		now:       opts.Now,
		newID:     opts.NewOrderID,
	}
	s.Reload(ctx)
	return s
}

// Reload replaces the in-memory collections with the stored ones.
func (s *Storefront) Reload(ctx context.Context) {
	cart := sanitizeCart(s.cartRepo.Load(ctx))
	wishlist := sanitizeWishlist(s.wishRepo.Load(ctx))

	s.mu.Lock()
	s.cart, s.wishlist = cart, wishlist
	s.mu.Unlock()
}

// sanitizeCart restores the one-line-per-id and quantity >= 1 invariants on
// data read back from the store.
func sanitizeCart(in []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(in))
	for _, l := range in {
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		if i := domain.FindLine(out, l.ID); i >= 0 {
			out[i].Quantity += l.Quantity
			continue
		}
		out = append(out, l)
	}
	return out
}

func sanitizeWishlist(in []domain.WishlistEntry) []domain.WishlistEntry {
	out := make([]domain.WishlistEntry, 0, len(in))
	for _, e := range in {
		if domain.FindEntry(out, e.ID) < 0 {
			out = append(out, e)
		}
	}
	return out
}

// SessionID returns the shopper session this storefront belongs to.
func (s *Storefront) SessionID() string { return s.sessionID }

// Catalog returns the product catalog.
func (s *Storefront) Catalog() *catalog.Catalog { return s.catalog }

// change describes the side effects of one mutation.
type change struct {
	op       string
	toast    string
	cart     bool
	wishlist bool
}

// commit persists the collections named by c, then raises the toast and
// publishes events outside the lock. The caller must hold s.mu; commit
// releases it.
func (s *Storefront) commit(ctx context.Context, c change) domain.Totals {
	log := logger.WithContext(ctx, s.logger)

	var cartSnap []domain.CartLine
	var wishSnap []domain.WishlistEntry
	if c.cart {
		cartSnap = slices.Clone(s.cart)
		if err := s.cartRepo.Save(ctx, cartSnap); err != nil {
			persistFailures.WithLabelValues(repository.KeyCart).Inc()
			log.Error("failed to persist cart", slog.String("op", c.op), slog.String("error", err.Error()))
		}
	}
	if c.wishlist {
		wishSnap = slices.Clone(s.wishlist)
		if err := s.wishRepo.Save(ctx, wishSnap); err != nil {
			persistFailures.WithLabelValues(repository.KeyWishlist).Inc()
			log.Error("failed to persist wishlist", slog.String("op", c.op), slog.String("error", err.Error()))
		}
	}
	totals := domain.ComputeTotals(s.cart, s.wishlist)
	s.mu.Unlock()

	mutationsTotal.WithLabelValues(c.op).Inc()
	log.Debug("collection mutated",
		slog.String("op", c.op),
		slog.Int("item_count", totals.ItemCount),
		slog.Int("wishlist_count", totals.WishlistCount),
	)

	if c.toast != "" {
		s.notifier.Notify(c.toast)
	}
	if s.events != nil {
		if c.cart {
			if err := s.events.PublishCartUpdated(ctx, s.sessionID, cartSnap); err != nil {
				log.Warn("failed to publish cart event", slog.String("error", err.Error()))
			}
		}
		if c.wishlist {
			if err := s.events.PublishWishlistUpdated(ctx, s.sessionID, wishSnap); err != nil {
				log.Warn("failed to publish wishlist event", slog.String("error", err.Error()))
			}
		}
	}
	return totals
}

func (s *Storefront) unchanged() domain.Totals {
	defer s.mu.Unlock()
	return domain.ComputeTotals(s.cart, s.wishlist)
}

// AddToCart adds qty units of a product, merging into an existing line.
// A qty below 1 adds one unit.
func (s *Storefront) AddToCart(ctx context.Context, productID, qty int) domain.Totals {
	s.mu.Lock()
	p, ok := s.catalog.Product(productID)
	if !ok {
		return s.unchanged()
	}
	s.addLocked(p, qty)
	return s.commit(ctx, change{op: "add_to_cart", toast: AddedToCartMessage(p.Name), cart: true})
}

func (s *Storefront) addLocked(p domain.Product, qty int) {
	qty = max(qty, 1)
	if i := domain.FindLine(s.cart, p.ID); i >= 0 {
		s.cart[i].Quantity += qty
		return
	}
	s.cart = append(s.cart, domain.CartLine{Product: p, Quantity: qty})
}

// RemoveFromCart deletes the product's line if present.
func (s *Storefront) RemoveFromCart(ctx context.Context, productID int) domain.Totals {
	s.mu.Lock()
	i := domain.FindLine(s.cart, productID)
	if i < 0 {
		return s.unchanged()
	}
	s.cart = slices.Delete(s.cart, i, i+1)
	return s.commit(ctx, change{op: "remove_from_cart", toast: MsgRemovedFromCart, cart: true})
}

// SetQuantity sets a line's quantity, clamped to at least 1. Absent lines are
// left alone.
func (s *Storefront) SetQuantity(ctx context.Context, productID, qty int) domain.Totals {
	s.mu.Lock()
	i := domain.FindLine(s.cart, productID)
	if i < 0 {
		return s.unchanged()
	}
	s.cart[i].Quantity = max(qty, 1)
	return s.commit(ctx, change{op: "set_quantity", cart: true})
}

// ToggleWishlist removes the product from the wishlist if present and adds
// it otherwise. It reports whether the product is in the wishlist afterwards.
func (s *Storefront) ToggleWishlist(ctx context.Context, productID int) (bool, domain.Totals) {
	s.mu.Lock()
	p, ok := s.catalog.Product(productID)
	if !ok {
		return false, s.unchanged()
	}
	if i := domain.FindEntry(s.wishlist, productID); i >= 0 {
		s.wishlist = slices.Delete(s.wishlist, i, i+1)
		return false, s.commit(ctx, change{op: "wishlist_remove", toast: MsgRemovedFromWishlist, wishlist: true})
	}
	s.wishlist = append(s.wishlist, domain.WishlistEntry{Product: p})
	return true, s.commit(ctx, change{op: "wishlist_add", toast: MsgAddedToWishlist, wishlist: true})
}

// RemoveFromWishlist deletes the product from the wishlist if present.
func (s *Storefront) RemoveFromWishlist(ctx context.Context, productID int) domain.Totals {
	s.mu.Lock()
	i := domain.FindEntry(s.wishlist, productID)
	if i < 0 {
		return s.unchanged()
	}
	s.wishlist = slices.Delete(s.wishlist, i, i+1)
	return s.commit(ctx, change{op: "wishlist_remove", toast: MsgRemovedFromWishlist, wishlist: true})
}

// MoveWishlistItemToCart adds one unit of the product to the cart and drops
// it from the wishlist. Both collections are written.
func (s *Storefront) MoveWishlistItemToCart(ctx context.Context, productID int) domain.Totals {
	s.mu.Lock()
	p, ok := s.catalog.Product(productID)
	i := domain.FindEntry(s.wishlist, productID)
	if !ok && i < 0 {
		return s.unchanged()
	}

	c := change{op: "move_to_cart", wishlist: i >= 0}
	if ok {
		s.addLocked(p, 1)
		c.cart = true
		c.toast = AddedToCartMessage(p.Name)
	}
	if i >= 0 {
		s.wishlist = slices.Delete(s.wishlist, i, i+1)
	}
	return s.commit(ctx, c)
}

// ClearCart empties the cart with a single write. The wishlist is untouched.
func (s *Storefront) ClearCart(ctx context.Context) domain.Totals {
	s.mu.Lock()
	s.cart = []domain.CartLine{}
	return s.commit(ctx, change{op: "clear_cart", cart: true})
}

// Checkout validates form. On failure nothing changes and the per-field
// result is returned. On success the cart is cleared, the order is published
// and a confirmation toast is raised.
func (s *Storefront) Checkout(ctx context.Context, form domain.CheckoutForm) (domain.Order, checkout.Result) {
	log := logger.WithContext(ctx, s.logger)

	res := checkout.Validate(form)
	if !res.OK() {
		checkoutsTotal.WithLabelValues("invalid").Inc()
		log.Info("checkout rejected", slog.Int("failed_fields", len(res.Errors)))
		return domain.Order{}, res
	}

	s.mu.Lock()
	totals := domain.ComputeTotals(s.cart, nil)
	order := domain.Order{
		ID:        s.newID(),
		Lines:     slices.Clone(s.cart),
		ItemCount: totals.ItemCount,
		Total:     totals.Total,
		Email:     strings.TrimSpace(form.Email),
		PlacedAt:  s.now().UTC(),
	}
	s.cart = []domain.CartLine{}
	s.commit(ctx, change{op: "checkout", toast: MsgOrderPlaced, cart: true})

	checkoutsTotal.WithLabelValues("placed").Inc()
	log.Info("order placed",
		slog.String("order_id", order.ID),
		slog.Int("item_count", order.ItemCount),
		slog.String("total", order.Total.StringFixed(2)),
	)

	if s.events != nil {
		if err := s.events.PublishOrderPlaced(ctx, s.sessionID, order); err != nil {
			log.Warn("failed to publish order event", slog.String("error", err.Error()))
		}
	}
	return order, res
}

// Snapshot is a copy of both collections and the totals derived from them,
// taken under one lock.
type Snapshot struct {
	Cart     []domain.CartLine
	Wishlist []domain.WishlistEntry
	Totals   domain.Totals
}

// Snapshot returns the collections and totals as of a single instant.
func (s *Storefront) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Cart:     slices.Clone(s.cart),
		Wishlist: slices.Clone(s.wishlist),
		Totals:   domain.ComputeTotals(s.cart, s.wishlist),
	}
}

// Cart returns a copy of the cart lines.
func (s *Storefront) Cart() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cart)
}

// Wishlist returns a copy of the wishlist.
func (s *Storefront) Wishlist() []domain.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.wishlist)
}

// Totals returns the current derived counters.
func (s *Storefront) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ComputeTotals(s.cart, s.wishlist)
}

// InCart reports whether the product has a cart line.
func (s *Storefront) InCart(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FindLine(s.cart, productID) >= 0
}

// InWishlist reports whether the product is in the wishlist.
func (s *Storefront) InWishlist(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FindEntry(s.wishlist, productID) >= 0
}

// Product looks a catalog product up by id.
func (s *Storefront) Product(productID int) (domain.Product, bool) {
	return s.catalog.Product(productID)
}
