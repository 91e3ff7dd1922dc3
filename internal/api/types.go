package api

import (
	"time"

	"vidbin/internal/models"
)

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// UploadURLRequest carries upload parameters when they arrive as a JSON
// body instead of query parameters.
type UploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// UploadURLResponse is the issued upload capability. UploadURL accepts one
// HTTP PUT of the raw file body; PreviewURL reads the blob back once the
// upload has completed.
type UploadURLResponse struct {
	UploadURL   string `json:"uploadUrl"`
	BlobName    string `json:"blobName"`
	PreviewURL  string `json:"previewUrl"`
	ContentType string `json:"contentType"`
}

// VideoItem is one gallery entry.
type VideoItem struct {
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// ListVideosResponse wraps the gallery listing.
type ListVideosResponse struct {
	Videos []VideoItem `json:"videos"`
}

// VideoMetaResponse is the stored metadata document plus the computed
// average.
type VideoMetaResponse struct {
	Comments []models.Comment `json:"comments"`
	Ratings  models.Ratings   `json:"ratings"`
	Avg      float64          `json:"avg"`
}

// AddCommentRequest posts one comment. Author is optional.
type AddCommentRequest struct {
	BlobName string `json:"blobName"`
	Author   string `json:"author"`
	Text     string `json:"text"`
}

// AddCommentResponse returns the updated comment list and rating summary.
type AddCommentResponse struct {
	OK       bool             `json:"ok"`
	Comments []models.Comment `json:"comments"`
	Avg      float64          `json:"avg"`
	Count    int              `json:"count"`
}

// RateVideoRequest records one rating contribution.
type RateVideoRequest struct {
	BlobName string  `json:"blobName"`
	Rating   float64 `json:"rating"`
}

// RateVideoResponse returns the updated rating summary.
type RateVideoResponse struct {
	OK    bool    `json:"ok"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}
