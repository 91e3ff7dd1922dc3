package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /health", s.handleHealth)

	// Uploads and gallery.
	mux.HandleFunc("GET /api/issue-upload-url", s.handleIssueUploadURL)
	mux.HandleFunc("GET /api/list-videos", s.handleListVideos)

	// Per-video metadata.
	mux.HandleFunc("GET /api/get-video-meta", s.handleGetVideoMeta)
	mux.HandleFunc("POST /api/add-comment", s.handleAddComment)
	mux.HandleFunc("POST /api/rate-video", s.handleRateVideo)

	// Embedded front end.
	mux.HandleFunc("GET /{$}", s.handleUIIndex)
	mux.Handle("GET /assets/", s.uiAssetHandler())

	return s.withRequestLogging(mux)
}
