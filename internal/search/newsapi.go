package search

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPIClient fetches supplementary coverage from NewsAPI.org.
type NewsAPIClient struct {
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewNewsAPIClient creates a NewsAPI client reading the key from the named
// environment variable.
func NewNewsAPIClient(apiKeyEnv string) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:  os.Getenv(apiKeyEnv),
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// IsConfigured returns whether the API key is available.
func (c *NewsAPIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// Search searches NewsAPI for articles matching a query within daysBack.
// Errors are logged and yield nil.
func (c *NewsAPIClient) Search(ctx context.Context, query string, daysBack int) []Result {
	if c.apiKey == "" {
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	if daysBack <= 0 {
		daysBack = 3
	}
	fromDate := time.Now().AddDate(0, 0, -daysBack).Format("2006-01-02")

	params := url.Values{
		"q":        {query},
		"from":     {fromDate},
		"sortBy":   {"relevancy"},
		"language": {"en"},
		"pageSize": {"10"},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", newsAPIBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("NewsAPI request error: %v", err)
		return nil
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("NewsAPI error for query '%s': %v", truncateQuery(query), err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("NewsAPI HTTP %d for query '%s'", resp.StatusCode, truncateQuery(query))
		return nil
	}

	var payload struct {
		Status   string `json:"status"`
		Articles []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("NewsAPI decode error: %v", err)
		return nil
	}
	if payload.Status != "ok" {
		log.Printf("NewsAPI status: %s", payload.Status)
		return nil
	}

	var results []Result
	for _, a := range payload.Articles {
		if a.Title == "[Removed]" || a.URL == "https://removed.com" {
			continue
		}
		source := "NewsAPI"
		if a.Source.Name != "" {
			source = a.Source.Name
		}
		results = append(results, Result{
			Title:   strings.TrimSpace(a.Title),
			URL:     a.URL,
			Snippet: strings.TrimSpace(a.Description),
			Source:  source,
			Date:    a.PublishedAt,
		})
	}

	log.Printf("Fetched %d results from NewsAPI for query: %s", len(results), truncateQuery(query))
	return results
}
