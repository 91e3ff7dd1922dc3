package server

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"vidbin/internal/api"
	"vidbin/internal/blobstore"
)

const (
	// Upload capabilities are short-lived; read capabilities last long
	// enough to share a preview link. Both windows carry a clock-skew
	// allowance because the issuing clock can run ahead of the store's.
	uploadURLTTL       = time.Hour
	readURLTTL         = 24 * time.Hour
	clockSkewAllowance = 2 * time.Minute

	defaultUploadFilename    = "video.mp4"
	defaultUploadContentType = "video/mp4"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".webm": {},
	".mov":  {},
	".mkv":  {},
	".m4v":  {},
}

var (
	unsafeNameChars = regexp.MustCompile(`[?#<>:"\\/|*]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// GalleryService issues upload capabilities and lists the video gallery.
type GalleryService struct {
	store blobstore.Store
	now   func() time.Time
}

// NewGalleryService constructs a GalleryService over the given store.
func NewGalleryService(store blobstore.Store) *GalleryService {
	return &GalleryService{store: store, now: time.Now}
}

// sanitizeBlobName replaces path and query metacharacters and whitespace
// runs with underscores so the original filename survives as a blob name.
func sanitizeBlobName(name string) string {
	name = unsafeNameChars.ReplaceAllString(name, "_")
	return whitespaceRuns.ReplaceAllString(name, "_")
}

func isVideoName(name string) bool {
	_, ok := videoExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

// IssueUpload returns a write capability for a fresh blob name derived
// from filename, plus a longer-lived read capability for previewing the
// blob after the upload completes. The blob does not exist yet when the
// URLs are issued.
func (s *GalleryService) IssueUpload(ctx context.Context, filename, contentType string) (api.UploadURLResponse, error) {
	var zero api.UploadURLResponse

	if strings.TrimSpace(filename) == "" {
		filename = defaultUploadFilename
	}
	if strings.TrimSpace(contentType) == "" {
		contentType = defaultUploadContentType
	}

	// Timestamp prefix keeps two uploads of the same file from colliding.
	blobName := fmt.Sprintf("%d_%s", s.now().UnixMilli(), sanitizeBlobName(filename))

	// The capability can be exercised immediately, so the bucket has to
	// exist before it is handed out.
	if err := s.store.EnsureBucket(ctx); err != nil {
		return zero, storeFailure(err)
	}

	uploadURL, err := s.store.PresignPut(ctx, blobName, uploadURLTTL+clockSkewAllowance)
	if err != nil {
		return zero, storeFailure(err)
	}
	previewURL, err := s.store.PresignGet(ctx, blobName, readURLTTL+clockSkewAllowance)
	if err != nil {
		return zero, storeFailure(err)
	}

	return api.UploadURLResponse{
		UploadURL:   uploadURL,
		BlobName:    blobName,
		PreviewURL:  previewURL,
		ContentType: contentType,
	}, nil
}

// List returns a gallery entry with a fresh read capability for every
// video blob, newest first. Names without a recognized video extension
// are skipped, which also keeps metadata documents out of the gallery.
func (s *GalleryService) List(ctx context.Context) ([]api.VideoItem, error) {
	if err := s.store.EnsureBucket(ctx); err != nil {
		return nil, storeFailure(err)
	}
	infos, err := s.store.List(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}

	videos := make([]api.VideoItem, 0, len(infos))
	for _, info := range infos {
		if !isVideoName(info.Name) {
			continue
		}
		url, err := s.store.PresignGet(ctx, info.Name, readURLTTL+clockSkewAllowance)
		if err != nil {
			return nil, storeFailure(err)
		}
		videos = append(videos, api.VideoItem{
			Name:         info.Name,
			URL:          url,
			Size:         info.Size,
			LastModified: info.LastModified,
		})
	}

	// Newest first; ties broken by descending name so the order is
	// deterministic when timestamps are equal.
	sort.Slice(videos, func(i, j int) bool {
		if !videos[i].LastModified.Equal(videos[j].LastModified) {
			return videos[i].LastModified.After(videos[j].LastModified)
		}
		return videos[i].Name > videos[j].Name
	})

	return videos, nil
}
