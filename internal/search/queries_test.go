package search

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestBuildQueriesBroadAndPerFund(t *testing.T) {
	funds := []string{"CalPERS", "Texas Teachers Retirement System"}
	queries := BuildQueries(funds)

	// 12 broad queries plus one per fund.
	if len(queries) != 14 {
		t.Fatalf("expected 14 queries, got %d", len(queries))
	}

	year := strconv.Itoa(time.Now().Year())
	if !strings.Contains(queries[0], year) {
		t.Errorf("expected current year in broad query, got %q", queries[0])
	}

	last := queries[len(queries)-1]
	if !strings.Contains(last, `"Texas Teachers"`) {
		t.Errorf("expected shortened fund name in per-fund query, got %q", last)
	}
}

func TestBuildQueriesCapsPerFundQueries(t *testing.T) {
	funds := make([]string, 50)
	for i := range funds {
		funds[i] = "Fund " + strconv.Itoa(i)
	}
	queries := BuildQueries(funds)
	if len(queries) != 12+topFundQueryCount {
		t.Errorf("expected %d queries, got %d", 12+topFundQueryCount, len(queries))
	}
}

func TestShortFundName(t *testing.T) {
	cases := map[string]string{
		"Texas Teachers Retirement System":        "Texas Teachers",
		"Los Angeles County Employees Retirement": "Los Angeles County Employees",
		"CalPERS":                                 "CalPERS",
	}
	for in, want := range cases {
		if got := shortFundName(in); got != want {
			t.Errorf("shortFundName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	in := "<p>CalPERS &amp; CalSTRS commit  to <b>private credit</b></p>"
	want := "CalPERS & CalSTRS commit to private credit"
	if got := stripHTML(in); got != want {
		t.Errorf("stripHTML = %q, want %q", got, want)
	}
}

func TestExtractSourceName(t *testing.T) {
	cases := map[string]string{
		"https://www.top1000funds.com/feed/": "Top1000funds",
		"https://feeds.ai-cio.com/rss":       "Ai-cio",
	}
	for in, want := range cases {
		if got := extractSourceName(in); got != want {
			t.Errorf("extractSourceName(%q) = %q, want %q", in, got, want)
		}
	}
}
