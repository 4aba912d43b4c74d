package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/storefront/backend/internal/application/order"
)

// OrderHandler handles order history and admin order management
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListMine returns the authenticated user's orders, newest first
// GET /api/v1/orders/my-orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orderService.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// Get returns a single order. Customers can only see their own orders;
// admins can see any.
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	requester := orderapp.Requester{UserID: userID, IsAdmin: isAdmin(c)}
	order, err := h.orderService.GetByID(c.Request.Context(), orderID, requester)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// AdminList returns all orders matching the filter
// GET /api/v1/admin/orders
func (h *OrderHandler) AdminList(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orderService.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// UpdateStatus moves an order through its fulfillment state machine
// PUT /api/v1/admin/orders/:id
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req orderapp.UpdateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
