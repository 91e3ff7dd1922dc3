package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// MaxCommentAuthorLen and MaxCommentTextLen bound what gets persisted;
	// longer input is truncated, never rejected.
	MaxCommentAuthorLen = 50
	MaxCommentTextLen   = 1000

	// AnonymousAuthor is stored when a commenter gives no name.
	AnonymousAuthor = "Anonymous"

	MinRating = 1
	MaxRating = 5
)

// Comment is one entry in a video's metadata document. Comments are
// append-only; the list preserves insertion order.
type Comment struct {
	ID     string    `json:"id"`
	Author string    `json:"author"`
	Text   string    `json:"text"`
	TS     time.Time `json:"ts"`
}

// Ratings is the rating aggregate for one video.
type Ratings struct {
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
}

// MetaDocument is the single JSON record holding one video's comments and
// rating aggregate. It lives in the object store next to the video blob.
type MetaDocument struct {
	Comments []Comment `json:"comments"`
	Ratings  Ratings   `json:"ratings"`
}

// DefaultMetaDocument returns the empty document used for videos with no
// prior activity.
func DefaultMetaDocument() MetaDocument {
	return MetaDocument{Comments: []Comment{}}
}

// Normalize backfills fields that a stored document may be missing.
func (d *MetaDocument) Normalize() {
	if d.Comments == nil {
		d.Comments = []Comment{}
	}
}

// Average returns the mean rating, or 0 when nothing has been rated.
func (d MetaDocument) Average() float64 {
	if d.Ratings.Count == 0 {
		return 0
	}
	return d.Ratings.Sum / float64(d.Ratings.Count)
}

// ParseRating validates a rating contribution.
func ParseRating(value float64) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < MinRating || value > MaxRating {
		return 0, fmt.Errorf("rating must be %d..%d", MinRating, MaxRating)
	}
	return value, nil
}

// NormalizeCommentAuthor applies the anonymous default and the length cap.
func NormalizeCommentAuthor(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return AnonymousAuthor
	}
	return truncate(raw, MaxCommentAuthorLen)
}

// NormalizeCommentText rejects blank text and caps the length. The stored
// text keeps its original surrounding whitespace; only blankness is judged
// on the trimmed form.
func NormalizeCommentText(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("text is required")
	}
	return truncate(raw, MaxCommentTextLen), nil
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
