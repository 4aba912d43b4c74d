package handler

import (
	"github.com/gin-gonic/gin"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
)

// CheckoutHandler handles the checkout flow: create a session from the
// cart, record payment, and finalize into an order.
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Create starts a checkout session from the user's cart
// POST /api/v1/checkout
func (h *CheckoutHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req checkoutapp.CreateCheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.checkoutService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// Pay records the payment result against a pending checkout
// PUT /api/v1/checkout/:id/pay
func (h *CheckoutHandler) Pay(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	checkoutID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req checkoutapp.PayCheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.checkoutService.Pay(c.Request.Context(), userID, checkoutID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Finalize converts a paid checkout into an order. The operation is
// idempotent: repeating it returns the order created by the first call.
// POST /api/v1/checkout/:id/finalize
func (h *CheckoutHandler) Finalize(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	checkoutID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.checkoutService.Finalize(c.Request.Context(), userID, checkoutID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}
