package database

import (
	"database/sql"
	"encoding/json"
)

// InsertDigest stores a digest and its ranked items. Items are stored in
// slice order, which is rank order.
func (db *DB) InsertDigest(d Digest, items []DigestItem) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}

	result, err := tx.Exec(
		`INSERT INTO digests (run_date, subject, body_markdown, item_count, high_count, medium_count, low_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.RunDate, d.Subject, d.BodyMarkdown, d.ItemCount, d.HighCount, d.MediumCount, d.LowCount,
	)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	digestID, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	for i, item := range items {
		assets, _ := json.Marshal(item.MatchedAssets)
		actions, _ := json.Marshal(item.MatchedActions)
		_, err := tx.Exec(
			`INSERT INTO digest_items
			(digest_id, position, title, url, snippet, source, published, score, matched_pension, matched_assets, matched_actions)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			digestID, i+1, item.Title, item.URL, item.Snippet, item.Source, item.Published,
			item.Score, item.MatchedPension, string(assets), string(actions),
		)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return digestID, nil
}

// GetDigest returns a digest by ID, or nil if absent.
func (db *DB) GetDigest(digestID int64) (*Digest, error) {
	row := db.conn.QueryRow(
		`SELECT id, run_date, subject, body_markdown, item_count, high_count, medium_count, low_count, generated_at
		FROM digests WHERE id = ?`, digestID,
	)
	var d Digest
	if err := row.Scan(&d.ID, &d.RunDate, &d.Subject, &d.BodyMarkdown,
		&d.ItemCount, &d.HighCount, &d.MediumCount, &d.LowCount, &d.GeneratedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// GetRecentDigests returns digests, newest first.
func (db *DB) GetRecentDigests(limit int) ([]Digest, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_date, subject, body_markdown, item_count, high_count, medium_count, low_count, generated_at
		FROM digests ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var digests []Digest
	for rows.Next() {
		var d Digest
		if err := rows.Scan(&d.ID, &d.RunDate, &d.Subject, &d.BodyMarkdown,
			&d.ItemCount, &d.HighCount, &d.MediumCount, &d.LowCount, &d.GeneratedAt); err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}
	return digests, rows.Err()
}

// GetDigestItems returns a digest's items in rank order.
func (db *DB) GetDigestItems(digestID int64) ([]DigestItem, error) {
	rows, err := db.conn.Query(
		`SELECT id, digest_id, position, title, url, snippet, source, published, score, matched_pension, matched_assets, matched_actions
		FROM digest_items WHERE digest_id = ? ORDER BY position`, digestID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DigestItem
	for rows.Next() {
		var item DigestItem
		var assets, actions *string
		if err := rows.Scan(&item.ID, &item.DigestID, &item.Position, &item.Title,
			&item.URL, &item.Snippet, &item.Source, &item.Published, &item.Score,
			&item.MatchedPension, &assets, &actions); err != nil {
			return nil, err
		}
		if assets != nil {
			json.Unmarshal([]byte(*assets), &item.MatchedAssets)
		}
		if actions != nil {
			json.Unmarshal([]byte(*actions), &item.MatchedActions)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetLastRunDate returns the run_date of the most recent digest, or ""
// when no digest exists.
func (db *DB) GetLastRunDate() (string, error) {
	var runDate string
	err := db.conn.QueryRow("SELECT run_date FROM digests ORDER BY id DESC LIMIT 1").Scan(&runDate)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return runDate, nil
}

// GetStats returns aggregate store statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM seen_items").Scan(&s.SeenItems); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM digests").Scan(&s.Digests); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM digest_items").Scan(&s.ItemsDelivered); err != nil {
		return nil, err
	}
	lastRun, err := db.GetLastRunDate()
	if err != nil {
		return nil, err
	}
	s.LastRunDate = lastRun
	return s, nil
}
