package database

import (
	"fmt"
	"log"
	"time"
)

// Snapshot is the in-memory view of the seen-item store for a single
// pipeline run: identity key -> last-seen timestamp. It is loaded once at
// the start of a run and saved once at the end.
type Snapshot map[string]string

// IsSeen reports whether the key was already delivered within the TTL
// window captured by this snapshot.
func (s Snapshot) IsSeen(key string) bool {
	_, ok := s[key]
	return ok
}

// Mark records (or refreshes) the last-seen timestamp for a key.
func (s Snapshot) Mark(key, timestamp string) {
	s[key] = timestamp
}

// Timestamp formats an instant as the store's timestamp representation:
// RFC 3339 UTC, lexicographically comparable within the store.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// LoadSeen returns the seen-item snapshot with TTL pruning applied
// eagerly: entries older than now-ttl are deleted from the store and
// excluded from the returned map. The cache is best-effort, not
// authoritative data — any failure degrades to an empty snapshot with a
// warning rather than failing the run.
func (db *DB) LoadSeen(now time.Time, ttl time.Duration) Snapshot {
	cutoff := Timestamp(now.Add(-ttl))

	if _, err := db.conn.Exec("DELETE FROM seen_items WHERE last_seen < ?", cutoff); err != nil {
		log.Printf("Warning: pruning seen items: %v", err)
	}

	rows, err := db.conn.Query("SELECT key, last_seen FROM seen_items WHERE last_seen >= ?", cutoff)
	if err != nil {
		log.Printf("Warning: loading seen items, starting with empty cache: %v", err)
		return Snapshot{}
	}
	defer rows.Close()

	snap := Snapshot{}
	for rows.Next() {
		var key, lastSeen string
		if err := rows.Scan(&key, &lastSeen); err != nil {
			log.Printf("Warning: reading seen items, starting with empty cache: %v", err)
			return Snapshot{}
		}
		snap[key] = lastSeen
	}
	if err := rows.Err(); err != nil {
		log.Printf("Warning: reading seen items, starting with empty cache: %v", err)
		return Snapshot{}
	}
	return snap
}

// SaveSeen persists the full snapshot, replacing prior store contents.
// A failure here only degrades future dedup effectiveness; callers treat
// it as a warning, not a fatal condition.
func (db *DB) SaveSeen(snap Snapshot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin seen-items save: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM seen_items"); err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing seen items: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO seen_items (key, last_seen) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing seen-items insert: %w", err)
	}
	defer stmt.Close()

	for key, lastSeen := range snap {
		if _, err := stmt.Exec(key, lastSeen); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting seen item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seen items: %w", err)
	}
	return nil
}
