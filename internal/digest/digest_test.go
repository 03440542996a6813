package digest

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"pensionwatch/internal/score"
	"pensionwatch/internal/search"
)

func testItems() []score.ScoredResult {
	return []score.ScoredResult{
		{
			Result: search.Result{
				Title:   "CalPERS approves $500 million private credit commitment",
				URL:     "https://example.com/a",
				Snippet: "The board voted to expand the program.",
				Source:  "Pensions & Investments",
				Date:    "2026-09-01T08:00:00Z",
			},
			Score:          70,
			MatchedPension: "CalPERS",
			MatchedAssets:  []string{"private credit"},
			MatchedActions: []string{"approve", "commit"},
		},
		{
			Result: search.Result{Title: "State plan weighs private equity pacing", URL: "https://example.com/b"},
			Score:  45,
		},
		{
			Result: search.Result{Title: "Fund report mentions venture capital", URL: "https://example.com/c"},
			Score:  30,
		},
	}
}

func TestBuildTiers(t *testing.T) {
	d := Build(testItems(), time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC))

	if len(d.High) != 1 || len(d.Medium) != 1 || len(d.Low) != 1 {
		t.Errorf("expected 1/1/1 tiers, got %d/%d/%d", len(d.High), len(d.Medium), len(d.Low))
	}
	if d.High[0].Score != 70 {
		t.Errorf("expected score-70 item in high tier, got %d", d.High[0].Score)
	}
}

func TestSubject(t *testing.T) {
	d := Build(testItems(), time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC))
	want := "Pension Allocation Digest — Sep 01 (3 updates)"
	if d.Subject() != want {
		t.Errorf("expected %q, got %q", want, d.Subject())
	}

	single := Build(testItems()[:1], d.RunDate)
	if !strings.Contains(single.Subject(), "(1 update)") {
		t.Errorf("expected singular noun, got %q", single.Subject())
	}
}

func TestHTMLRendersItemsAndTags(t *testing.T) {
	d := Build(testItems(), time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC))
	html, err := d.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"CalPERS approves $500 million private credit commitment",
		"https://example.com/a",
		"High Priority — Active Allocations (1)",
		"Medium Priority — Likely Relevant (1)",
		"Informational (1)",
		`<span class="tag tag-pension">CalPERS</span>`,
		`<span class="tag tag-asset">private credit</span>`,
		"2026-09-01",
		"Score: 70",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected HTML to contain %q", want)
		}
	}
}

func TestHTMLEmptyDigest(t *testing.T) {
	d := Build(nil, time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC))
	html, err := d.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "No new actionable updates found today.") {
		t.Error("expected empty-state block")
	}
	if !strings.Contains(html, "0 actionable updates") {
		t.Error("expected zero count in summary")
	}
}

func TestText(t *testing.T) {
	d := Build(testItems(), time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC))
	text := d.Text()

	if !strings.Contains(text, "3 actionable updates found.") {
		t.Error("expected update count")
	}
	if !strings.Contains(text, "1. [70] CalPERS approves $500 million private credit commitment") {
		t.Error("expected ranked first line")
	}
	if !strings.Contains(text, "Pension: CalPERS") {
		t.Error("expected pension attribution line")
	}
	if !strings.Contains(text, "Asset Class: private credit") {
		t.Error("expected asset class line")
	}
}

func TestTruncateRuneSafe(t *testing.T) {
	// The 4-byte cut lands inside the euro sign; truncation must back
	// off to the previous rune boundary.
	if got := truncate("aaa€", 4); got != "aaa..." {
		t.Errorf("expected %q, got %q", "aaa...", got)
	}
	if got := truncate("short", 200); got != "short" {
		t.Errorf("expected untouched string, got %q", got)
	}

	long := strings.Repeat("€", 100)
	cut := truncate(long, 200)
	if !utf8.ValidString(cut) {
		t.Errorf("expected valid UTF-8 after truncation, got %q", cut)
	}
	if len(cut) > 200+len("...") {
		t.Errorf("expected at most 203 bytes, got %d", len(cut))
	}
}

func TestMarkdown(t *testing.T) {
	d := Build(testItems(), time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC))
	md := d.Markdown()

	if !strings.Contains(md, "## High Priority — Active Allocations (1)") {
		t.Error("expected high-priority section")
	}
	if !strings.Contains(md, "[CalPERS approves $500 million private credit commitment](https://example.com/a)") {
		t.Error("expected markdown link")
	}
	if !strings.Contains(md, "Score: 70") {
		t.Error("expected score in meta line")
	}

	empty := Build(nil, d.RunDate)
	if empty.Markdown() != "No new actionable updates found." {
		t.Errorf("unexpected empty markdown: %q", empty.Markdown())
	}
}
