package search

import (
	"log"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
)

const (
	maxPerFeed       = 20
	maxSnippetLength = 300
)

// FeedParser collects raw results from trade-press RSS/Atom feeds.
type FeedParser struct {
	feeds []FeedConfig
}

// FeedConfig is a single feed source.
type FeedConfig struct {
	URL  string
	Name string
}

// NewFeedParser creates a FeedParser over the configured feeds.
func NewFeedParser(feeds []FeedConfig) *FeedParser {
	return &FeedParser{feeds: feeds}
}

// ParseAll parses all configured feeds and returns entries published within
// daysBack, mapped to raw results. Feed failures are logged and skipped.
func (fp *FeedParser) ParseAll(daysBack int) []Result {
	cutoff := time.Now().AddDate(0, 0, -daysBack)
	parser := gofeed.NewParser()

	var all []Result
	for _, fc := range fp.feeds {
		name := fc.Name
		if name == "" {
			name = extractSourceName(fc.URL)
		}

		entries, err := parseFeed(parser, fc.URL, name, cutoff)
		if err != nil {
			log.Printf("Failed to parse feed %s: %v", fc.URL, err)
			continue
		}
		all = append(all, entries...)
		log.Printf("Parsed %d entries from %s (within %d days)", len(entries), name, daysBack)
	}
	return all
}

func parseFeed(parser *gofeed.Parser, feedURL, sourceName string, cutoff time.Time) ([]Result, error) {
	feed, err := parser.ParseURL(feedURL)
	if err != nil {
		return nil, err
	}

	var entries []Result
	for _, item := range feed.Items {
		if len(entries) >= maxPerFeed {
			break
		}

		r, published := feedItemResult(item, sourceName)
		if r == nil {
			continue
		}
		if published.IsZero() || !published.Before(cutoff) {
			entries = append(entries, *r)
		}
	}
	return entries, nil
}

func feedItemResult(item *gofeed.Item, source string) (*Result, time.Time) {
	itemURL := item.Link
	if itemURL == "" {
		itemURL = item.GUID
	}
	title := strings.TrimSpace(item.Title)
	if itemURL == "" || title == "" {
		return nil, time.Time{}
	}

	var published time.Time
	var date string
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}
	if !published.IsZero() {
		date = published.UTC().Format(time.RFC3339)
	}

	snippet := item.Description
	if snippet == "" {
		snippet = item.Content
	}
	snippet = stripHTML(snippet)
	if len(snippet) > maxSnippetLength {
		cut := maxSnippetLength
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}

	return &Result{
		Title:   title,
		URL:     itemURL,
		Snippet: snippet,
		Source:  source,
		Date:    date,
	}, published
}

func stripHTML(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
			result.WriteRune(' ')
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}

	s := result.String()
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")

	return strings.Join(strings.Fields(s), " ")
}

func extractSourceName(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil {
		return feedURL
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return feedURL
	}

	for _, prefix := range []string{"www.", "blog.", "rss.", "feeds."} {
		host = strings.TrimPrefix(host, prefix)
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		name := parts[len(parts)-2]
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return strings.ToUpper(host[:1]) + host[1:]
}
