package upload

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// AllowedImageTypes defines the whitelist of image content types accepted
// for product image uploads. SVG is excluded because it can carry scripts.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MaxImageSize is the largest accepted upload in bytes
const MaxImageSize = 5 << 20

// ObjectStorageService defines the interface for object storage operations.
// It is implemented by the infrastructure layer (S3 or compatible).
type ObjectStorageService interface {
	// Upload stores the object and returns its publicly reachable URL
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) (string, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}

// UploadService handles product image uploads
type UploadService struct {
	storage ObjectStorageService
}

// NewUploadService creates a new UploadService
func NewUploadService(storage ObjectStorageService) *UploadService {
	return &UploadService{storage: storage}
}

// UploadImage validates and stores a product image, returning its hosted
// URL. The original file name only contributes its extension; the stored
// key is always freshly generated.
func (s *UploadService) UploadImage(ctx context.Context, fileName, contentType string, data []byte) (*UploadImageResponse, error) {
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "No image file provided")
	}
	if len(data) > MaxImageSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("Image exceeds the maximum size of %d bytes", MaxImageSize))
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	defaultExt, ok := AllowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: JPEG, PNG, GIF and WebP.", contentType))
	}

	url, err := s.storage.Upload(ctx, generateStorageKey(fileName, defaultExt), data, contentType)
	if err != nil {
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store image")
	}

	return &UploadImageResponse{
		ImageURL: url,
		Message:  "Image uploaded successfully",
	}, nil
}

func generateStorageKey(fileName, defaultExt string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, known := knownExtensions[ext]; !known {
		ext = defaultExt
	}
	return "products/" + uuid.New().String() + ext
}

var knownExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}
