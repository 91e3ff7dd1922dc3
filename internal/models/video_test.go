package models

import (
	"math"
	"strings"
	"testing"
)

func TestAverage(t *testing.T) {
	doc := DefaultMetaDocument()
	if got := doc.Average(); got != 0 {
		t.Fatalf("empty document average: got %v, want 0", got)
	}

	doc.Ratings = Ratings{Sum: 9, Count: 2}
	if got := doc.Average(); got != 4.5 {
		t.Fatalf("average: got %v, want 4.5", got)
	}
}

func TestParseRating(t *testing.T) {
	for _, valid := range []float64{1, 3, 5, 4.5} {
		if _, err := ParseRating(valid); err != nil {
			t.Errorf("ParseRating(%v): unexpected error %v", valid, err)
		}
	}
	for _, invalid := range []float64{0, 0.99, 5.01, -3, math.NaN(), math.Inf(1)} {
		if _, err := ParseRating(invalid); err == nil {
			t.Errorf("ParseRating(%v): expected error", invalid)
		}
	}
}

func TestNormalizeCommentAuthor(t *testing.T) {
	if got := NormalizeCommentAuthor(""); got != AnonymousAuthor {
		t.Fatalf("empty author: got %q", got)
	}
	if got := NormalizeCommentAuthor("   "); got != AnonymousAuthor {
		t.Fatalf("blank author: got %q", got)
	}

	long := strings.Repeat("a", 80)
	if got := NormalizeCommentAuthor(long); len(got) != MaxCommentAuthorLen {
		t.Fatalf("long author: got len %d, want %d", len(got), MaxCommentAuthorLen)
	}
}

func TestNormalizeCommentText(t *testing.T) {
	if _, err := NormalizeCommentText("   \t\n"); err == nil {
		t.Fatal("blank text: expected error")
	}

	text, err := NormalizeCommentText("hi")
	if err != nil {
		t.Fatalf("valid text: %v", err)
	}
	if text != "hi" {
		t.Fatalf("valid text: got %q", text)
	}

	long := strings.Repeat("x", MaxCommentTextLen+200)
	text, err = NormalizeCommentText(long)
	if err != nil {
		t.Fatalf("long text: %v", err)
	}
	if len(text) != MaxCommentTextLen {
		t.Fatalf("long text: got len %d, want %d", len(text), MaxCommentTextLen)
	}
}

func TestNormalizeBackfillsComments(t *testing.T) {
	var doc MetaDocument
	doc.Normalize()
	if doc.Comments == nil {
		t.Fatal("Normalize left comments nil")
	}
}
