// Package pipeline orchestrates a full monitor run: search, rank, render,
// deliver. A file lock serializes runs so overlapping invocations cannot
// interleave seen-store writes.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"pensionwatch/internal/config"
	"pensionwatch/internal/database"
	"pensionwatch/internal/deliver"
	"pensionwatch/internal/digest"
	"pensionwatch/internal/rank"
	"pensionwatch/internal/score"
	"pensionwatch/internal/search"
)

// Collector is the search layer as the pipeline sees it.
type Collector interface {
	Collect(ctx context.Context) *search.BatchResult
	Queries() []string
}

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full monitor run.
type Result struct {
	RunDate  time.Time
	Steps    []StepResult
	DigestID int64
	Items    []score.ScoredResult
}

// Pipeline orchestrates the 4-step monitor run.
type Pipeline struct {
	cfg       *config.Config
	db        *database.DB
	collector Collector
	mailer    *deliver.Mailer
	dataDir   string
	lock      *flock.Flock
}

// New creates a pipeline. The collector is passed in so commands share the
// one built from config.
func New(cfg *config.Config, db *database.DB, collector Collector, dataDir string) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		db:        db,
		collector: collector,
		mailer: deliver.NewMailer(
			cfg.Email.Recipient,
			cfg.Email.Sender,
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.UserEnv,
			cfg.Email.PasswordEnv,
		),
		dataDir: dataDir,
		lock:    flock.New(filepath.Join(dataDir, "pensionwatch.lock")),
	}
}

// Run executes the full pipeline. noEmail skips SMTP delivery but still
// writes the digest locally and records it in the database.
func (p *Pipeline) Run(ctx context.Context, noEmail bool) (*Result, error) {
	locked, err := p.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run is in progress (lock held: %s)", p.lock.Path())
	}
	defer p.lock.Unlock()

	runDate := time.Now().UTC()
	r := &Result{RunDate: runDate}
	log.Printf("Pension Fund Allocation Monitor — %s", runDate.Format("2006-01-02 15:04 UTC"))

	// Step 1: Search
	log.Println("Step 1/4: Collecting search results...")
	batch := p.collector.Collect(ctx)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Search",
		Summary: fmt.Sprintf("%d raw results from %d sources (%d queries)", len(batch.Results), len(batch.Sources), batch.QueriesRun),
	})

	// Step 2: Rank
	log.Println("Step 2/4: Ranking results...")
	scorer := score.NewScorer(score.Registry{
		Funds:           p.cfg.Registries.Funds,
		PensionGenerics: p.cfg.Registries.PensionGenerics,
		AssetClasses:    p.cfg.Registries.AssetClasses,
		ActionKeywords:  p.cfg.Registries.ActionKeywords,
		ExcludeKeywords: p.cfg.Registries.ExcludeKeywords,
	})
	ttl := time.Duration(p.cfg.Scoring.CacheTTLDays) * 24 * time.Hour
	ranked := rank.New(p.db, scorer, p.cfg.Scoring.MinScore, ttl).Rank(batch.Results)
	r.Items = ranked.Items
	r.Steps = append(r.Steps, StepResult{
		Name:    "Rank",
		Summary: fmt.Sprintf("%d actionable of %d raw (%d seen, %d duplicates, %d below threshold)",
			len(ranked.Items), ranked.TotalRaw, ranked.AlreadySeen, ranked.BatchDuplicates, ranked.BelowThreshold),
		Err: ranked.SaveErr,
	})

	// Step 3: Render
	log.Println("Step 3/4: Rendering digest...")
	d := digest.Build(ranked.Items, runDate)
	html, err := d.HTML()
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Render", Err: err})
		return r, err
	}
	digestID, err := p.storeDigest(d)
	if err != nil {
		// History is best-effort; the run still delivers.
		log.Printf("Warning: storing digest failed: %v", err)
	}
	r.DigestID = digestID
	r.Steps = append(r.Steps, StepResult{
		Name:    "Render",
		Summary: fmt.Sprintf("%d high, %d medium, %d informational", len(d.High), len(d.Medium), len(d.Low)),
	})

	// Step 4: Deliver
	log.Println("Step 4/4: Delivering digest...")
	r.Steps = append(r.Steps, p.deliverStep(d, html, noEmail, runDate))

	return r, nil
}

// DryRun reports what a run would do without contacting any provider or
// writing anything.
func (p *Pipeline) DryRun() *Result {
	runDate := time.Now().UTC()
	r := &Result{RunDate: runDate}

	queries := p.collector.Queries()
	r.Steps = append(r.Steps, StepResult{
		Name:    "Search",
		Summary: fmt.Sprintf("[dry-run] would run %d Google queries (max %d) plus NewsAPI and feeds", len(queries), p.cfg.Search.Google.MaxQueries),
	})

	stats, err := p.db.GetStats()
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Rank", Err: err})
	} else {
		last := stats.LastRunDate
		if last == "" {
			last = "never"
		}
		r.Steps = append(r.Steps, StepResult{
			Name:    "Rank",
			Summary: fmt.Sprintf("[dry-run] threshold %d, %d items in seen cache, last run %s", p.cfg.Scoring.MinScore, stats.SeenItems, last),
		})
	}

	r.Steps = append(r.Steps, StepResult{
		Name:    "Render",
		Summary: "[dry-run] would render HTML, text and markdown digest",
	})

	delivery := "save locally only (SMTP not configured)"
	if p.mailer.Configured() {
		delivery = fmt.Sprintf("email %s via %s:%d", p.cfg.Email.Recipient, p.cfg.Email.SMTPHost, p.cfg.Email.SMTPPort)
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Deliver",
		Summary: fmt.Sprintf("[dry-run] would %s", delivery),
	})

	return r
}

func (p *Pipeline) storeDigest(d *digest.Digest) (int64, error) {
	rec := database.Digest{
		RunDate:      d.RunDate.Format("2006-01-02"),
		Subject:      d.Subject(),
		BodyMarkdown: d.Markdown(),
		ItemCount:    len(d.Items),
		HighCount:    len(d.High),
		MediumCount:  len(d.Medium),
		LowCount:     len(d.Low),
	}

	items := make([]database.DigestItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = database.DigestItem{
			Position:       i + 1,
			Title:          item.Title,
			URL:            optional(item.URL),
			Snippet:        optional(item.Snippet),
			Source:         optional(item.Source),
			Published:      optional(item.Date),
			Score:          item.Score,
			MatchedPension: optional(item.MatchedPension),
			MatchedAssets:  item.MatchedAssets,
			MatchedActions: item.MatchedActions,
		}
	}

	return p.db.InsertDigest(rec, items)
}

func (p *Pipeline) deliverStep(d *digest.Digest, html string, noEmail bool, runDate time.Time) StepResult {
	if path, err := deliver.WriteLatest(p.dataDir, html); err != nil {
		log.Printf("Warning: %v", err)
	} else {
		log.Printf("Digest saved to %s", path)
	}

	switch {
	case noEmail:
		return StepResult{Name: "Deliver", Summary: "Email skipped (--no-email), digest saved locally"}
	case !p.mailer.Configured():
		path, err := deliver.WriteFallback(p.dataDir, html, runDate)
		if err != nil {
			return StepResult{Name: "Deliver", Err: err}
		}
		log.Printf("SMTP credentials not configured, digest saved to %s", path)
		return StepResult{Name: "Deliver", Summary: fmt.Sprintf("SMTP not configured, saved to %s", path)}
	default:
		if err := p.mailer.Send(d.Subject(), d.Text(), html); err != nil {
			if path, ferr := deliver.WriteFallback(p.dataDir, html, runDate); ferr == nil {
				log.Printf("Email send failed, digest saved to %s", path)
			}
			return StepResult{Name: "Deliver", Err: err}
		}
		return StepResult{Name: "Deliver", Summary: fmt.Sprintf("Digest emailed to %s", p.cfg.Email.Recipient)}
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
