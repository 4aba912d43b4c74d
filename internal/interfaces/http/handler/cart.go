package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartHandler handles shopping cart endpoints. Carts belong either to an
// authenticated user or to a guest identified by the X-Guest-ID header.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// cartOwner resolves the cart owner for the request. An authenticated
// user always owns their own cart; otherwise the guest header is used.
func (h *CartHandler) cartOwner(c *gin.Context) (cartapp.Owner, bool) {
	if userID, err := getUserID(c); err == nil {
		return cartapp.Owner{UserID: &userID}, true
	}

	guestID := c.GetHeader(GuestIDHeader)
	if guestID == "" {
		h.BadRequest(c, "Either authentication or an X-Guest-ID header is required")
		return cartapp.Owner{}, false
	}
	return cartapp.Owner{GuestID: guestID}, true
}

// Get returns the owner's cart
// GET /api/v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	owner, ok := h.cartOwner(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem adds a product variant to the cart, creating the cart if needed
// POST /api/v1/cart
func (h *CartHandler) AddItem(c *gin.Context) {
	owner, ok := h.cartOwner(c)
	if !ok {
		return
	}

	var req cartapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateItem replaces the quantity of a cart line
// PUT /api/v1/cart
func (h *CartHandler) UpdateItem(c *gin.Context) {
	owner, ok := h.cartOwner(c)
	if !ok {
		return
	}

	var req cartapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem removes a line from the cart
// DELETE /api/v1/cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	owner, ok := h.cartOwner(c)
	if !ok {
		return
	}

	var req cartapp.RemoveItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// Merge folds a guest cart into the authenticated user's cart after login
// POST /api/v1/cart/merge
func (h *CartHandler) Merge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	guestID := c.GetHeader(GuestIDHeader)
	if guestID == "" {
		h.BadRequest(c, "X-Guest-ID header is required")
		return
	}

	cart, err := h.cartService.Merge(c.Request.Context(), userID, guestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}
