package server

import (
	"net/http"

	"vidbin/internal/api"
)

func (s *Server) handleGetVideoMeta(w http.ResponseWriter, r *http.Request) {
	blobName := r.URL.Query().Get("blobName")

	doc, err := s.meta.Get(r.Context(), blobName)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.VideoMetaResponse{
		Comments: doc.Comments,
		Ratings:  doc.Ratings,
		Avg:      doc.Average(),
	})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req api.AddCommentRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	doc, err := s.meta.AddComment(r.Context(), req.BlobName, req.Author, req.Text)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.AddCommentResponse{
		OK:       true,
		Comments: doc.Comments,
		Avg:      doc.Average(),
		Count:    doc.Ratings.Count,
	})
}

func (s *Server) handleRateVideo(w http.ResponseWriter, r *http.Request) {
	var req api.RateVideoRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	doc, err := s.meta.Rate(r.Context(), req.BlobName, req.Rating)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.RateVideoResponse{
		OK:    true,
		Avg:   doc.Average(),
		Count: doc.Ratings.Count,
	})
}
