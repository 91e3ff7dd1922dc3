package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vidbin/internal/blobstore"
	"vidbin/internal/models"
)

// metaPrefix segregates metadata documents from video blobs inside the
// shared bucket. Listing filters on video extensions, so nothing under
// this prefix ever shows up in the gallery.
const metaPrefix = "__meta/"

const metaContentType = "application/json"

// MetaService maintains the per-video metadata document: the comment list
// and the rating aggregate, one JSON blob per video.
//
// Every mutation is a read-merge-write of the whole document. A
// per-document mutex serializes writers within this process; across
// processes the protocol stays last-write-wins, so a multi-instance
// deployment can lose concurrent updates.
type MetaService struct {
	store blobstore.Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMetaService constructs a MetaService over the given store.
func NewMetaService(store blobstore.Store) *MetaService {
	return &MetaService{
		store: store,
		now:   time.Now,
		locks: map[string]*sync.Mutex{},
	}
}

func metaPath(videoName string) string {
	return metaPrefix + videoName + ".json"
}

// lockFor returns the mutex for videoName, creating it on first use.
// Entries are never evicted; the map holds one mutex per video ever
// touched, a few dozen bytes each.
func (s *MetaService) lockFor(videoName string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[videoName]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[videoName] = lock
	}
	return lock
}

// load returns the stored document for videoName. Absence yields the
// empty default; so does a document that fails to parse. Only a storage
// failure is surfaced.
func (s *MetaService) load(ctx context.Context, videoName string) (models.MetaDocument, error) {
	doc := models.DefaultMetaDocument()

	data, err := s.store.Get(ctx, metaPath(videoName))
	if errors.Is(err, blobstore.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, storeFailure(err)
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		// A corrupt document must never fail the caller.
		return models.DefaultMetaDocument(), nil
	}
	doc.Normalize()
	return doc, nil
}

func (s *MetaService) persist(ctx context.Context, videoName string, doc models.MetaDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return internalError(err)
	}
	// The first comment or rating may land before any upload has created
	// the bucket.
	if err := s.store.EnsureBucket(ctx); err != nil {
		return storeFailure(err)
	}
	if err := s.store.Put(ctx, metaPath(videoName), data, metaContentType); err != nil {
		return storeFailure(err)
	}
	return nil
}

func requireVideoName(videoName string) error {
	if strings.TrimSpace(videoName) == "" {
		return badRequest(fmt.Errorf("blobName is required"))
	}
	return nil
}

// Get returns the document plus the computed average. A video with no
// prior activity reads as the empty default, never as not-found.
func (s *MetaService) Get(ctx context.Context, videoName string) (models.MetaDocument, error) {
	if err := requireVideoName(videoName); err != nil {
		return models.MetaDocument{}, err
	}
	return s.load(ctx, videoName)
}

// AddComment validates and appends one comment, persisting the whole
// document, and returns the updated document.
func (s *MetaService) AddComment(ctx context.Context, videoName, author, text string) (models.MetaDocument, error) {
	var zero models.MetaDocument
	if err := requireVideoName(videoName); err != nil {
		return zero, err
	}
	text, err := models.NormalizeCommentText(text)
	if err != nil {
		return zero, badRequest(err)
	}
	author = models.NormalizeCommentAuthor(author)

	lock := s.lockFor(videoName)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.load(ctx, videoName)
	if err != nil {
		return zero, err
	}

	doc.Comments = append(doc.Comments, models.Comment{
		ID:     uuid.NewString(),
		Author: author,
		Text:   text,
		TS:     s.now().UTC(),
	})

	if err := s.persist(ctx, videoName, doc); err != nil {
		return zero, err
	}
	return doc, nil
}

// Rate validates and records one rating contribution, persisting the
// whole document, and returns the updated document.
func (s *MetaService) Rate(ctx context.Context, videoName string, rating float64) (models.MetaDocument, error) {
	var zero models.MetaDocument
	if err := requireVideoName(videoName); err != nil {
		return zero, err
	}
	value, err := models.ParseRating(rating)
	if err != nil {
		return zero, badRequest(err)
	}

	lock := s.lockFor(videoName)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.load(ctx, videoName)
	if err != nil {
		return zero, err
	}

	doc.Ratings.Sum += value
	doc.Ratings.Count++

	if err := s.persist(ctx, videoName, doc); err != nil {
		return zero, err
	}
	return doc, nil
}
