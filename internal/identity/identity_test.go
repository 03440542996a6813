package identity

import (
	"testing"

	"pensionwatch/internal/search"
)

func TestKeyDeterministic(t *testing.T) {
	r := search.Result{URL: "https://example.com/a", Title: "T"}
	if Key(r) != Key(r) {
		t.Error("expected identical keys for repeated calls")
	}
}

func TestKeyIgnoresOtherFields(t *testing.T) {
	a := search.Result{URL: "https://example.com/a", Title: "First headline", Snippet: "x", Source: "One"}
	b := search.Result{URL: "https://example.com/a", Title: "Other headline", Snippet: "y", Source: "Two", Date: "2026-09-01"}
	if Key(a) != Key(b) {
		t.Error("expected same key for same URL regardless of other fields")
	}
}

func TestKeyNormalizesURL(t *testing.T) {
	a := search.Result{URL: "  HTTPS://Example.com/Story  "}
	b := search.Result{URL: "https://example.com/story"}
	if Key(a) != Key(b) {
		t.Error("expected case/whitespace-insensitive URL keys")
	}
}

func TestKeyFallsBackToTitle(t *testing.T) {
	a := search.Result{Title: "CalPERS Commits $500M"}
	b := search.Result{Title: "  calpers commits $500m "}
	if Key(a) != Key(b) {
		t.Error("expected normalized title keys when URL is empty")
	}

	c := search.Result{URL: "https://example.com/x", Title: "CalPERS Commits $500M"}
	if Key(a) == Key(c) {
		t.Error("expected URL to take precedence over title")
	}
}

func TestKeyEmptyResult(t *testing.T) {
	key := Key(search.Result{})
	if len(key) != 32 {
		t.Errorf("expected 32-char hex key for empty result, got %q", key)
	}
}

func TestKeyDistinctURLs(t *testing.T) {
	a := search.Result{URL: "https://example.com/a"}
	b := search.Result{URL: "https://example.com/b"}
	if Key(a) == Key(b) {
		t.Error("expected different keys for different URLs")
	}
}
