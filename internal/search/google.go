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

const googleCSEBaseURL = "https://www.googleapis.com/customsearch/v1"

// GoogleClient queries the Google Custom Search Engine API. The free tier
// allows 100 queries/day, so calls are paced and capped by the collector.
type GoogleClient struct {
	apiKey       string
	cseID        string
	dateRestrict string
	client       *http.Client
	limiter      *rate.Limiter
}

// NewGoogleClient creates a Google CSE client reading credentials from the
// named environment variables.
func NewGoogleClient(apiKeyEnv, cseIDEnv, dateRestrict string) *GoogleClient {
	if dateRestrict == "" {
		dateRestrict = "d3"
	}
	return &GoogleClient{
		apiKey:       os.Getenv(apiKeyEnv),
		cseID:        os.Getenv(cseIDEnv),
		dateRestrict: dateRestrict,
		client:       &http.Client{Timeout: 15 * time.Second},
		limiter:      rate.NewLimiter(rate.Every(1200*time.Millisecond), 1),
	}
}

// IsConfigured returns whether both credentials are available.
func (c *GoogleClient) IsConfigured() bool {
	return c.apiKey != "" && c.cseID != ""
}

// Search runs a single CSE query and returns up to 10 raw results.
// Provider errors are logged and yield nil; the run never aborts on them.
func (c *GoogleClient) Search(ctx context.Context, query string) []Result {
	if !c.IsConfigured() {
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	params := url.Values{
		"key":          {c.apiKey},
		"cx":           {c.cseID},
		"q":            {query},
		"num":          {"10"},
		"dateRestrict": {c.dateRestrict},
		"sort":         {"date"},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", googleCSEBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("Google CSE request error: %v", err)
		return nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Google CSE error for query '%s': %v", truncateQuery(query), err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Google CSE HTTP %d for query '%s'", resp.StatusCode, truncateQuery(query))
		return nil
	}

	var payload struct {
		Items []struct {
			Title       string `json:"title"`
			Link        string `json:"link"`
			Snippet     string `json:"snippet"`
			DisplayLink string `json:"displayLink"`
			Pagemap     struct {
				Metatags []map[string]string `json:"metatags"`
			} `json:"pagemap"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("Google CSE decode error: %v", err)
		return nil
	}

	var results []Result
	for _, item := range payload.Items {
		var published string
		if len(item.Pagemap.Metatags) > 0 {
			published = item.Pagemap.Metatags[0]["article:published_time"]
		}
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Source:  item.DisplayLink,
			Date:    published,
		})
	}
	return results
}

func truncateQuery(q string) string {
	if len(q) > 50 {
		return q[:50] + "..."
	}
	return strings.TrimSpace(q)
}
