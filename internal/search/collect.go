package search

import (
	"context"
	"log"

	"pensionwatch/internal/config"
)

// BatchResult holds one collection run's raw results in arrival order,
// plus per-source counts for reporting.
type BatchResult struct {
	Results    []Result
	Sources    map[string]int
	QueriesRun int
}

// Collector fans the configured providers into a single raw-result batch.
// It performs no deduplication or filtering; that belongs to the ranking
// pipeline.
type Collector struct {
	google      *GoogleClient
	news        *NewsAPIClient
	feeds       *FeedParser
	queries     []string
	newsQueries []string
	maxQueries  int
	daysBack    int
}

// NewCollector builds a collector from configuration. Providers without
// credentials stay constructed but report unconfigured and are skipped.
func NewCollector(cfg *config.Config) *Collector {
	c := &Collector{
		queries:    BuildQueries(cfg.Registries.Funds),
		maxQueries: cfg.Search.Google.MaxQueries,
		daysBack:   cfg.Search.NewsAPI.DaysBack,
	}

	if cfg.Search.Google.Enabled {
		c.google = NewGoogleClient(
			cfg.Search.Google.APIKeyEnv,
			cfg.Search.Google.CSEIDEnv,
			cfg.Search.Google.DateRestrict,
		)
	}
	if cfg.Search.NewsAPI.Enabled {
		c.news = NewNewsAPIClient(cfg.Search.NewsAPI.APIKeyEnv)
		c.newsQueries = cfg.Search.NewsAPI.Queries
	}
	if len(cfg.Search.Feeds) > 0 {
		feeds := make([]FeedConfig, len(cfg.Search.Feeds))
		for i, f := range cfg.Search.Feeds {
			feeds[i] = FeedConfig{URL: f.URL, Name: f.Name}
		}
		c.feeds = NewFeedParser(feeds)
	}

	return c
}

// Queries returns the built Google query list.
func (c *Collector) Queries() []string {
	return c.queries
}

// Collect runs every configured provider and returns the combined batch.
func (c *Collector) Collect(ctx context.Context) *BatchResult {
	r := &BatchResult{Sources: make(map[string]int)}

	if c.google != nil && c.google.IsConfigured() {
		log.Printf("Running %d Google CSE queries...", len(c.queries))
		for i, query := range c.queries {
			if c.maxQueries > 0 && i >= c.maxQueries {
				log.Println("Approaching Google CSE daily quota limit, stopping searches")
				break
			}
			log.Printf("  [%d/%d] Searching: %s", i+1, len(c.queries), truncateQuery(query))
			r.add(c.google.Search(ctx, query))
			r.QueriesRun++
		}
	} else if c.google != nil {
		log.Println("Google CSE credentials not configured, skipping")
	}

	if c.news != nil && c.news.IsConfigured() {
		log.Println("Running NewsAPI queries...")
		for _, query := range c.newsQueries {
			r.add(c.news.Search(ctx, query, c.daysBack))
			r.QueriesRun++
		}
	}

	if c.feeds != nil {
		log.Println("Collecting from RSS feeds...")
		daysBack := c.daysBack
		if daysBack <= 0 {
			daysBack = 3
		}
		r.add(c.feeds.ParseAll(daysBack))
	}

	log.Printf("Collection complete: %d raw results from %d sources", len(r.Results), len(r.Sources))
	return r
}

func (r *BatchResult) add(results []Result) {
	for _, res := range results {
		r.Results = append(r.Results, res)
		source := res.Source
		if source == "" {
			source = "Unknown"
		}
		r.Sources[source]++
	}
}
