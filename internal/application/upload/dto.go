package upload

// UploadImageResponse represents the result of an image upload
type UploadImageResponse struct {
	ImageURL string `json:"imageUrl"`
	Message  string `json:"message"`
}
