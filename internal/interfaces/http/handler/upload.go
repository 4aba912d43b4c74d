package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	uploadapp "github.com/storefront/backend/internal/application/upload"
)

// UploadHandler handles admin image upload endpoints
type UploadHandler struct {
	BaseHandler
	uploadService *uploadapp.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService *uploadapp.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadImage receives a multipart image and stores it in object storage
// POST /api/v1/admin/upload
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.BadRequest(c, "An image file is required in the 'image' form field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	// One byte over the limit is enough to reject without buffering the rest
	data, err := io.ReadAll(io.LimitReader(file, uploadapp.MaxImageSize+1))
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	resp, err := h.uploadService.UploadImage(c.Request.Context(), fileHeader.Filename, contentType, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}
