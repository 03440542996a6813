package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"pensionwatch/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func insertTestDigest(t *testing.T, db *database.DB) int64 {
	t.Helper()
	id, err := db.InsertDigest(database.Digest{
		RunDate:      "2026-09-01",
		Subject:      "Pension Allocation Digest — Sep 01 (1 update)",
		BodyMarkdown: "## High Priority — Active Allocations (1)\n\n### [CalPERS commits $500m](https://example.com/a)\n",
		ItemCount:    1,
		HighCount:    1,
	}, []database.DigestItem{
		{
			Position: 1,
			Title:    "CalPERS commits $500m",
			URL:      ptr("https://example.com/a"),
			Source:   ptr("Pensions & Investments"),
			Score:    70,
		},
	})
	if err != nil {
		t.Fatalf("failed to insert digest: %v", err)
	}
	return id
}

func TestIndexRoute(t *testing.T) {
	db := openTestDB(t)
	insertTestDigest(t, db)

	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "2026-09-01") {
		t.Error("expected digest run date in index")
	}
	if !strings.Contains(body, "1 high") {
		t.Error("expected tier counts in index")
	}
}

func TestIndexRouteEmpty(t *testing.T) {
	srv, err := New(openTestDB(t))
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No digests yet") {
		t.Error("expected empty state in index")
	}
}

func TestDigestRoute(t *testing.T) {
	db := openTestDB(t)
	id := insertTestDigest(t, db)

	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/digest/"+strconv.FormatInt(id, 10), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	// Markdown body is rendered to HTML.
	if !strings.Contains(body, "<h2") || !strings.Contains(body, "High Priority") {
		t.Error("expected rendered markdown sections")
	}
	if !strings.Contains(body, `href="https://example.com/a"`) {
		t.Error("expected item link in rank table")
	}
}

func TestDigestRouteNotFound(t *testing.T) {
	srv, err := New(openTestDB(t))
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/digest/999", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	srv, err := New(openTestDB(t))
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
