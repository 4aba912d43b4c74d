package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/storefront/backend/internal/application/identity"
)

// UserHandler handles admin user management endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns users matching the filter
// GET /api/v1/admin/users
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, users, total, page, pageSize)
}

// Create adds a user account, optionally with the admin role
// POST /api/v1/admin/users
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// UpdateRole changes a user's role
// PUT /api/v1/admin/users/:id
func (h *UserHandler) UpdateRole(c *gin.Context) {
	userID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req identityapp.UpdateUserRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateRole(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Delete removes a user account
// DELETE /api/v1/admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
