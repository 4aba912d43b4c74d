package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

const defaultArrivalsLimit = 8

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List returns published products matching the query filters
// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.ListPublished(c.Request.Context(), filter)
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
		pageSize = len(products)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// BestSeller returns the highest rated published product
// GET /api/v1/products/best-seller
func (h *ProductHandler) BestSeller(c *gin.Context) {
	product, err := h.productService.BestSeller(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// NewArrivals returns the most recently published products
// GET /api/v1/products/new-arrivals
func (h *ProductHandler) NewArrivals(c *gin.Context) {
	limit := defaultArrivalsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	products, err := h.productService.NewArrivals(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// Get returns a single published product
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	product, err := h.productService.GetPublishedByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Similar returns published products sharing category and gender
// GET /api/v1/products/similar/:id
func (h *ProductHandler) Similar(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	products, err := h.productService.Similar(c.Request.Context(), id, defaultArrivalsLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// AdminList returns all products regardless of status
// GET /api/v1/admin/products
func (h *ProductHandler) AdminList(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.ListAll(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// AdminGet returns a product in any status
// GET /api/v1/admin/products/:id
func (h *ProductHandler) AdminGet(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Create adds a new product to the catalog
// POST /api/v1/admin/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Update modifies an existing product
// PUT /api/v1/admin/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product from the catalog
// DELETE /api/v1/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
