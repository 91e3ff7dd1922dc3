package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vidbin/internal/api"
	"vidbin/internal/blobstore"
)

func newTestServer(t *testing.T) (*Server, *blobstore.Memory) {
	t.Helper()
	store := blobstore.NewMemory()
	return New("127.0.0.1:0", store, nil), store
}

func doJSON(t *testing.T, srv *Server, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.SetVersion("test")

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" || resp["version"] != "test" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestIssueUploadURLEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/issue-upload-url?filename=trip.mp4&contentType=video/mp4", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d (%s)", w.Code, w.Body.String())
	}

	var resp api.UploadURLResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UploadURL == "" || resp.PreviewURL == "" || resp.BlobName == "" {
		t.Fatalf("incomplete response: %+v", resp)
	}
	if resp.ContentType != "video/mp4" {
		t.Errorf("content type: %q", resp.ContentType)
	}
}

func TestIssueUploadURLDefaultsWithoutParams(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/issue-upload-url", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d (%s)", w.Code, w.Body.String())
	}

	var resp api.UploadURLResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ContentType != "video/mp4" {
		t.Errorf("default content type: %q", resp.ContentType)
	}
}

func TestListVideosEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	if err := store.Put(ctx, "a.mp4", []byte("v"), "video/mp4"); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "__meta/a.mp4.json", []byte("{}"), "application/json"); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, srv, http.MethodGet, "/api/list-videos", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d (%s)", w.Code, w.Body.String())
	}

	var resp api.ListVideosResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Videos) != 1 || resp.Videos[0].Name != "a.mp4" {
		t.Fatalf("videos: %+v", resp.Videos)
	}
}

func TestGetVideoMetaDefaults(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/get-video-meta?blobName=quiet.mp4", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d (%s)", w.Code, w.Body.String())
	}

	var resp api.VideoMetaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Comments) != 0 || resp.Ratings.Count != 0 || resp.Ratings.Sum != 0 || resp.Avg != 0 {
		t.Fatalf("expected empty defaults: %+v", resp)
	}
}

func TestGetVideoMetaRequiresBlobName(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/get-video-meta", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}

	var resp api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == "" {
		t.Fatal("error body missing error message")
	}
}

func TestAddCommentFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/add-comment", api.AddCommentRequest{
		BlobName: "clip.mp4",
		Author:   "Alice",
		Text:     "hi",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d (%s)", w.Code, w.Body.String())
	}

	var resp api.AddCommentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || len(resp.Comments) != 1 {
		t.Fatalf("response: %+v", resp)
	}
	if resp.Comments[0].Author != "Alice" || resp.Comments[0].Text != "hi" {
		t.Fatalf("comment: %+v", resp.Comments[0])
	}

	// The ts must be a parseable timestamp when read back raw.
	mw := doJSON(t, srv, http.MethodGet, "/api/get-video-meta?blobName=clip.mp4", nil)
	var raw struct {
		Comments []struct {
			TS string `json:"ts"`
		} `json:"comments"`
	}
	if err := json.Unmarshal(mw.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if len(raw.Comments) != 1 {
		t.Fatalf("meta comments: %+v", raw.Comments)
	}
	if _, err := time.Parse(time.RFC3339, raw.Comments[0].TS); err != nil {
		t.Fatalf("ts %q not parseable: %v", raw.Comments[0].TS, err)
	}
}

func TestAddCommentValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []api.AddCommentRequest{
		{BlobName: "", Text: "hi"},
		{BlobName: "clip.mp4", Text: ""},
		{BlobName: "clip.mp4", Text: "   "},
	}
	for _, req := range cases {
		w := doJSON(t, srv, http.MethodPost, "/api/add-comment", req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%+v: status %d, want 400", req, w.Code)
		}
		var resp api.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Errorf("%+v: decode error body: %v", req, err)
			continue
		}
		if resp.Error == "" {
			t.Errorf("%+v: empty error message", req)
		}
	}
}

func TestAddCommentRejectsMalformedJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/add-comment", bytes.NewReader([]byte("{nope")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestRateVideoFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	for i, rating := range []float64{5, 4} {
		w := doJSON(t, srv, http.MethodPost, "/api/rate-video", api.RateVideoRequest{
			BlobName: "clip.mp4",
			Rating:   rating,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("rating %d: status %d (%s)", i, w.Code, w.Body.String())
		}
	}

	w := doJSON(t, srv, http.MethodGet, "/api/get-video-meta?blobName=clip.mp4", nil)
	var resp api.VideoMetaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Ratings.Count != 2 || resp.Avg != 4.5 {
		t.Fatalf("ratings: %+v avg %v", resp.Ratings, resp.Avg)
	}
}

func TestRateVideoValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []api.RateVideoRequest{
		{BlobName: "", Rating: 3},
		{BlobName: "clip.mp4", Rating: 0},
		{BlobName: "clip.mp4", Rating: 6},
	}
	for _, req := range cases {
		w := doJSON(t, srv, http.MethodPost, "/api/rate-video", req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%+v: status %d, want 400", req, w.Code)
		}
	}

	// A missing rating field decodes to zero, which is out of range.
	w := doJSON(t, srv, http.MethodPost, "/api/rate-video", map[string]any{"blobName": "clip.mp4"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing rating: status %d, want 400", w.Code)
	}
}

func TestListenAddr(t *testing.T) {
	t.Setenv(allowRemoteEnvKey, "")

	addr, err := ListenAddr("http://127.0.0.1:8844")
	if err != nil {
		t.Fatalf("loopback url: %v", err)
	}
	if addr != "127.0.0.1:8844" {
		t.Fatalf("addr: %q", addr)
	}

	if _, err := ListenAddr("http://0.0.0.0:8844"); err == nil {
		t.Fatal("remote host allowed without override")
	}

	t.Setenv(allowRemoteEnvKey, "true")
	if _, err := ListenAddr("http://0.0.0.0:8844"); err != nil {
		t.Fatalf("remote host with override: %v", err)
	}
}
