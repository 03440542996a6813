package database

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func TestSeenRoundTrip(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()

	snap := Snapshot{}
	snap.Mark("abc", Timestamp(now))
	snap.Mark("def", Timestamp(now))
	if err := db.SaveSeen(snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := db.LoadSeen(now, 30*24*time.Hour)
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded))
	}
	if !loaded.IsSeen("abc") || !loaded.IsSeen("def") {
		t.Error("expected both keys to be seen")
	}
	if loaded.IsSeen("ghi") {
		t.Error("expected unknown key to be unseen")
	}
}

func TestSeenTTLPruning(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()
	ttl := 30 * 24 * time.Hour

	snap := Snapshot{
		"old":    Timestamp(now.AddDate(0, 0, -31)),
		"recent": Timestamp(now.AddDate(0, 0, -29)),
	}
	if err := db.SaveSeen(snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := db.LoadSeen(now, ttl)
	if loaded.IsSeen("old") {
		t.Error("expected 31-day-old entry to be pruned")
	}
	if !loaded.IsSeen("recent") {
		t.Error("expected 29-day-old entry to survive")
	}

	// Pruning is eager: the expired row is gone from the store itself,
	// not just filtered from the returned snapshot.
	var count int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM seen_items").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 row after prune, got %d", count)
	}
}

func TestSaveSeenReplacesContents(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()

	if err := db.SaveSeen(Snapshot{"a": Timestamp(now), "b": Timestamp(now)}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSeen(Snapshot{"c": Timestamp(now)}); err != nil {
		t.Fatal(err)
	}

	loaded := db.LoadSeen(now, time.Hour)
	if len(loaded) != 1 || !loaded.IsSeen("c") {
		t.Errorf("expected save to replace contents, got %v", loaded)
	}
}

func TestLoadSeenBrokenStoreDegradesToEmpty(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()

	if err := db.SaveSeen(Snapshot{"a": Timestamp(now)}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.conn.Exec("DROP TABLE seen_items"); err != nil {
		t.Fatal(err)
	}

	// The cache is best-effort: an unreadable store is an empty store.
	loaded := db.LoadSeen(now, time.Hour)
	if len(loaded) != 0 {
		t.Errorf("expected empty snapshot from broken store, got %d entries", len(loaded))
	}

	// Persisting is the one failure that surfaces, as a returned error.
	if err := db.SaveSeen(Snapshot{"b": Timestamp(now)}); err == nil {
		t.Error("expected save against broken store to fail")
	}
}

func TestLoadSeenEmptyStore(t *testing.T) {
	db := openTestDB(t)
	loaded := db.LoadSeen(time.Now(), time.Hour)
	if len(loaded) != 0 {
		t.Errorf("expected empty snapshot, got %d entries", len(loaded))
	}
}

func TestInsertAndGetDigest(t *testing.T) {
	db := openTestDB(t)

	id, err := db.InsertDigest(Digest{
		RunDate:      "2026-09-01",
		Subject:      "Pension Allocation Digest",
		BodyMarkdown: "## Digest body",
		ItemCount:    2,
		HighCount:    1,
		MediumCount:  1,
	}, []DigestItem{
		{Title: "High item", URL: ptr("https://a.com"), Score: 70, MatchedPension: ptr("CalPERS"),
			MatchedAssets: []string{"private credit"}, MatchedActions: []string{"commit"}},
		{Title: "Medium item", URL: ptr("https://b.com"), Score: 45},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero digest ID")
	}

	d, err := db.GetDigest(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil || d.Subject != "Pension Allocation Digest" {
		t.Fatalf("unexpected digest: %+v", d)
	}
	if d.ItemCount != 2 || d.HighCount != 1 {
		t.Errorf("unexpected counts: %+v", d)
	}

	items, err := db.GetDigestItems(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "High item" || items[1].Title != "Medium item" {
		t.Error("expected items in rank order")
	}
	if len(items[0].MatchedAssets) != 1 || items[0].MatchedAssets[0] != "private credit" {
		t.Errorf("unexpected matched assets: %v", items[0].MatchedAssets)
	}
}

func TestGetDigestMissing(t *testing.T) {
	db := openTestDB(t)
	d, err := db.GetDigest(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != nil {
		t.Error("expected nil for missing digest")
	}
}

func TestGetRecentDigestsAndLastRun(t *testing.T) {
	db := openTestDB(t)
	db.InsertDigest(Digest{RunDate: "2026-08-31", Subject: "First"}, nil)
	db.InsertDigest(Digest{RunDate: "2026-09-01", Subject: "Second"}, nil)

	digests, err := db.GetRecentDigests(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(digests) != 2 || digests[0].Subject != "Second" {
		t.Errorf("expected newest first, got %+v", digests)
	}

	lastRun, err := db.GetLastRunDate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lastRun != "2026-09-01" {
		t.Errorf("expected 2026-09-01, got %q", lastRun)
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	db.SaveSeen(Snapshot{"a": Timestamp(time.Now())})
	db.InsertDigest(Digest{RunDate: "2026-09-01", Subject: "S"}, []DigestItem{{Title: "T", Score: 30}})

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.SeenItems != 1 || stats.Digests != 1 || stats.ItemsDelivered != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.LastRunDate != "2026-09-01" {
		t.Errorf("unexpected last run date: %q", stats.LastRunDate)
	}
}
