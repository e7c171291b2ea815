package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rasulshaikhdev/techgear-hub/internal/checkout"
	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
	"github.com/rasulshaikhdev/techgear-hub/internal/service"
	apperrors "github.com/rasulshaikhdev/techgear-hub/pkg/errors"
	"github.com/rasulshaikhdev/techgear-hub/pkg/httputil"
	"github.com/rasulshaikhdev/techgear-hub/pkg/validator"
)

// CartHandler handles the session-scoped endpoints: cart, wishlist,
// checkout, notifications and preferences.
type CartHandler struct {
	logger *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(logger *slog.Logger) *CartHandler {
	return &CartHandler{logger: logger}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
// A missing or zero quantity adds one unit.
type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gte=1"`
	Quantity  int `json:"quantity" validate:"gte=0"`
}

// UpdateQuantityRequest is the JSON request body for updating a line's
// quantity. Values below 1 are clamped to 1.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// --- Response views ---

type cartView struct {
	Items  []domain.CartLine `json:"items"`
	Totals domain.Totals     `json:"totals"`
}

type wishlistView struct {
	Items  []domain.WishlistEntry `json:"items"`
	Totals domain.Totals          `json:"totals"`
}

type toggleView struct {
	InWishlist bool          `json:"in_wishlist"`
	Totals     domain.Totals `json:"totals"`
}

type orderView struct {
	Order  domain.Order    `json:"order"`
	Result checkout.Result `json:"result"`
}

type preferencesView struct {
	DarkMode bool `json:"dark_mode"`
}

func cartOf(sf *service.Storefront) cartView {
	snap := sf.Snapshot()
	return cartView{Items: snap.Cart, Totals: snap.Totals}
}

func wishlistOf(sf *service.Storefront) wishlistView {
	snap := sf.Snapshot()
	return wishlistView{Items: snap.Wishlist, Totals: snap.Totals}
}

// productParam parses {productId}. Unknown products are reported as 404 when
// mustExist is set; otherwise the service treats them as a no-op.
func (h *CartHandler) productParam(w http.ResponseWriter, r *http.Request, sf *service.Storefront, mustExist bool) (int, bool) {
	id, ok := httputil.ParseIntParam(w, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return 0, false
	}
	if mustExist {
		if _, found := sf.Product(id); !found {
			httputil.WriteError(w, r, apperrors.NotFound("product", strconv.Itoa(id)), h.logger)
			return 0, false
		}
	}
	return id, true
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sf := sessionFromContext(r.Context()).Storefront
	httputil.WriteData(w, http.StatusOK, cartOf(sf))
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sf := sessionFromContext(r.Context()).Storefront
	sf.ClearCart(r.Context())
	httputil.WriteData(w, http.StatusOK, cartOf(sf))
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sf := sessionFromContext(r.Context()).Storefront

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		h.writeBodyError(w, r, err)
		return
	}
	if _, ok := sf.Product(req.ProductID); !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", strconv.Itoa(req.ProductID)), h.logger)
		return
	}

	sf.AddToCart(r.Context(), req.ProductID, req.Quantity)
	httputil.WriteData(w, http.StatusOK, cartOf(sf))
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	sf := sessionFromContext(r.Context()).Storefront
	id, ok := h.productParam(w, r, sf, false)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		h.writeBodyError(w, r, err)
		return
	}
	if !sf.InCart(id) {
		httputil.WriteError(w, r, apperrors.NotFound("cart line", strconv.Itoa(id)), h.logger)
		return
	}

	sf.SetQuantity(r.Context(), id, req.Quantity)
	httputil.WriteData(w, http.StatusOK, cartOf(sf))
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sf := sessionFromContext(r.Context()).Storefront
	id, ok := h.productParam(w, r, sf, false)
	if !ok {
		return
	}
	sf.RemoveFromCart(r.Context(), id)
	httputil.WriteData(w, http.StatusOK, cartOf(sf))
}

// GetWishlist handles GET /api/v1/wishlist
func (h *CartHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	sf := sessionFromContext(r.Context()).Storefront
	httputil.WriteData(w, http.StatusOK, wishlistOf(sf))
}

// ToggleWishlist handles POST /api/v1/wishlist/items/{productId}/toggle
func (h *CartHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	sf := sessionFromContext(r.Context()).Storefront
	id, ok := h.productParam(w, r, sf, true)
	if !ok {
		return
	}
	present, totals := sf.ToggleWishlist(r.Context(), id)
	httputil.WriteData(w, http.StatusOK, toggleView{InWishlist: present, Totals: totals})
}

// RemoveFromWishlist handles DELETE /api/v1/wishlist/items/{productId}
func (h *CartHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	sf := sessionFromContext(r.Context()).Storefront
	id, ok := h.productParam(w, r, sf, false)
	if !ok {
		return
	}
	sf.RemoveFromWishlist(r.Context(), id)
	httputil.WriteData(w, http.StatusOK, wishlistOf(sf))
}

// MoveToCart handles POST /api/v1/wishlist/items/{productId}/move-to-cart
func (h *CartHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	sf := sessionFromContext(r.Context()).Storefront
	id, ok := h.productParam(w, r, sf, false)
	if !ok {
		return
	}
	sf.MoveWishlistItemToCart(r.Context(), id)
	httputil.WriteData(w, http.StatusOK, cartOf(sf))
}

// Checkout handles POST /api/v1/checkout. An invalid form answers 422 with
// the failing fields and leaves the cart untouched.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sf := sessionFromContext(r.Context()).Storefront

	// Field validation happens in the service so rejected forms are counted.
	var form domain.CheckoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.writeBodyError(w, r, err)
		return
	}

	order, res := sf.Checkout(r.Context(), form)
	if !res.OK() {
		httputil.WriteError(w, r, res.Err(), h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, orderView{Order: order, Result: res})
}

// CurrentNotification handles GET /api/v1/notifications/current
func (h *CartHandler) CurrentNotification(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, sessionFromContext(r.Context()).Toast.State())
}

// GetPreferences handles GET /api/v1/preferences
func (h *CartHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs := sessionFromContext(r.Context()).Preferences
	httputil.WriteData(w, http.StatusOK, preferencesView{DarkMode: prefs.DarkMode(r.Context())})
}

// ToggleDarkMode handles POST /api/v1/preferences/dark-mode/toggle
func (h *CartHandler) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	prefs := sessionFromContext(r.Context()).Preferences
	on, err := prefs.ToggleDarkMode(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, preferencesView{DarkMode: on})
}

// writeBodyError reports a malformed body as 400 and a failed validation as 422.
func (h *CartHandler) writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
}
