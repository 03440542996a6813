// Package identity derives the canonical identity key that the seen-item
// store and the ranking pipeline use to recognize "the same item" across
// providers and runs.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"pensionwatch/internal/search"
)

// Key returns the stable identity for a raw result: the hex digest of its
// normalized URL, or of its normalized title when the URL is empty. Two
// results reporting the same story from different providers map to the
// same key even when snippet, date, or source differ. Total: an empty
// result still yields a valid (degenerate) key.
//
// Consumers must treat the key as an opaque stable string; only this
// package knows its construction.
func Key(r search.Result) string {
	basis := strings.ToLower(strings.TrimSpace(r.URL))
	if basis == "" {
		basis = strings.ToLower(strings.TrimSpace(r.Title))
	}
	sum := md5.Sum([]byte(basis))
	return hex.EncodeToString(sum[:])
}
