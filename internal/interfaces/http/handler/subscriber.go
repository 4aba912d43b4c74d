package handler

import (
	"github.com/gin-gonic/gin"
	newsletterapp "github.com/storefront/backend/internal/application/newsletter"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// SubscriberHandler handles newsletter subscription endpoints
type SubscriberHandler struct {
	BaseHandler
	subscriberService *newsletterapp.SubscriberService
}

// NewSubscriberHandler creates a new SubscriberHandler
func NewSubscriberHandler(subscriberService *newsletterapp.SubscriberService) *SubscriberHandler {
	return &SubscriberHandler{subscriberService: subscriberService}
}

// Subscribe adds an email to the newsletter list
// POST /api/v1/subscribe
func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	var req newsletterapp.SubscribeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	subscriber, err := h.subscriberService.Subscribe(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, subscriber)
}

// AdminList returns subscribers in subscription order
// GET /api/v1/admin/subscribers
func (h *SubscriberHandler) AdminList(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	subscribers, err := h.subscriberService.List(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subscribers)
}
