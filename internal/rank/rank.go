// Package rank orchestrates the core pipeline: normalize identities,
// drop already-delivered and within-batch duplicate items, score the
// survivors, apply the minimum-score threshold, and return the kept items
// sorted by score. The seen-item store is read exactly once and written
// exactly once per invocation.
package rank

import (
	"log"
	"sort"
	"time"

	"pensionwatch/internal/database"
	"pensionwatch/internal/identity"
	"pensionwatch/internal/score"
	"pensionwatch/internal/search"
)

// Result holds one ranking run's output and bookkeeping counts.
type Result struct {
	Items           []score.ScoredResult // descending by score
	TotalRaw        int
	AlreadySeen     int
	BatchDuplicates int
	BelowThreshold  int
	// SaveErr is set when persisting the seen-item store failed. The
	// ranked items are still valid; only future dedup is degraded.
	SaveErr error
}

// Pipeline ranks raw result batches against the seen-item store.
type Pipeline struct {
	db       *database.DB
	scorer   *score.Scorer
	minScore int
	ttl      time.Duration
}

// New creates a ranking pipeline. ttl bounds how long a delivered item
// suppresses repeats; minScore is the digest admission threshold.
func New(db *database.DB, scorer *score.Scorer, minScore int, ttl time.Duration) *Pipeline {
	return &Pipeline{db: db, scorer: scorer, minScore: minScore, ttl: ttl}
}

// Rank processes one batch of raw results in arrival order. Duplicates of
// an item accepted earlier in the same batch are dropped silently; items
// already in the store are excluded. Every kept item is marked in the
// store with this run's timestamp before the store is persisted.
//
// No step is fatal: a store that cannot be loaded ranks against an empty
// cache, and a store that cannot be saved is reported via SaveErr.
func (p *Pipeline) Rank(results []search.Result) *Result {
	now := time.Now()
	seen := p.db.LoadSeen(now, p.ttl)

	r := &Result{TotalRaw: len(results)}
	accepted := make(map[string]struct{})

	for _, raw := range results {
		key := identity.Key(raw)
		if seen.IsSeen(key) {
			r.AlreadySeen++
			continue
		}
		if _, ok := accepted[key]; ok {
			r.BatchDuplicates++
			continue
		}

		scored := p.scorer.Score(raw)
		if scored.Score < p.minScore {
			r.BelowThreshold++
			continue
		}

		accepted[key] = struct{}{}
		r.Items = append(r.Items, scored)
	}

	ts := database.Timestamp(now)
	for key := range accepted {
		seen.Mark(key, ts)
	}

	// Stable sort: equal-score items keep their post-dedup scan order.
	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].Score > r.Items[j].Score
	})

	if err := p.db.SaveSeen(seen); err != nil {
		log.Printf("Warning: persisting seen items failed, future dedup degraded: %v", err)
		r.SaveErr = err
	}

	log.Printf("Ranked %d raw results: %d kept, %d seen, %d duplicates, %d below threshold",
		r.TotalRaw, len(r.Items), r.AlreadySeen, r.BatchDuplicates, r.BelowThreshold)
	return r
}
