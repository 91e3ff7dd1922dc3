package server

import (
	"encoding/json"
	"net/http"

	"vidbin/internal/api"
)

func (s *Server) handleIssueUploadURL(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	contentType := r.URL.Query().Get("contentType")

	// Parameters may also arrive as a JSON body; query wins. The body is
	// optional, so decode failures are not errors here.
	if filename == "" || contentType == "" {
		var req api.UploadURLRequest
		if r.Body != nil {
			_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, defaultJSONMaxBody)).Decode(&req)
		}
		if filename == "" {
			filename = req.Filename
		}
		if contentType == "" {
			contentType = req.ContentType
		}
	}

	resp, err := s.gallery.IssueUpload(r.Context(), filename, contentType)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.gallery.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ListVideosResponse{Videos: videos})
}
