package server

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed uiassets
var uiFS embed.FS

func (s *Server) uiAssetHandler() http.Handler {
	assets, err := fs.Sub(uiFS, "uiassets")
	if err != nil {
		return http.NotFoundHandler()
	}

	fileServer := http.StripPrefix("/assets/", http.FileServerFS(assets))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fileServer.ServeHTTP(w, r)
	})
}

func (s *Server) handleUIIndex(w http.ResponseWriter, r *http.Request) {
	index, err := fs.ReadFile(uiFS, "uiassets/index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(index)
}
