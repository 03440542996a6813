// Package digest renders ranked results into the deliverable digest:
// an HTML email body, a plain-text alternative, and a markdown body for
// storage and the local web UI. It owns presentation only; ordering and
// scoring are decided upstream.
package digest

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"pensionwatch/internal/score"
)

// Priority tier boundaries on the 0-100 score scale.
const (
	highPriorityScore   = 60
	mediumPriorityScore = 40
)

//go:embed templates/email.html
var templateFS embed.FS

var emailTemplate = template.Must(template.New("email.html").Funcs(template.FuncMap{
	"shortDate": shortDate,
	"truncate":  truncate,
}).ParseFS(templateFS, "templates/email.html"))

// Digest is one run's rendered output grouped by priority tier.
type Digest struct {
	RunDate time.Time
	Items   []score.ScoredResult
	High    []score.ScoredResult
	Medium  []score.ScoredResult
	Low     []score.ScoredResult
}

// Build partitions ranked items into priority tiers. Item order within a
// tier follows the input (rank) order.
func Build(items []score.ScoredResult, runDate time.Time) *Digest {
	d := &Digest{RunDate: runDate, Items: items}
	for _, item := range items {
		switch {
		case item.Score >= highPriorityScore:
			d.High = append(d.High, item)
		case item.Score >= mediumPriorityScore:
			d.Medium = append(d.Medium, item)
		default:
			d.Low = append(d.Low, item)
		}
	}
	return d
}

// Subject returns the email subject line for this digest.
func (d *Digest) Subject() string {
	noun := "updates"
	if len(d.Items) == 1 {
		noun = "update"
	}
	return fmt.Sprintf("Pension Allocation Digest — %s (%d %s)",
		d.RunDate.Format("Jan 02"), len(d.Items), noun)
}

// HTML renders the digest email body.
func (d *Digest) HTML() (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("rendering digest HTML: %w", err)
	}
	return buf.String(), nil
}

// Text renders the plain-text alternative.
func (d *Digest) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PENSION FUND ALLOCATION MONITOR — %s\n", d.RunDate.Format("Monday, January 02, 2006"))
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "%d actionable updates found.\n\n", len(d.Items))

	for i, item := range d.Items {
		fmt.Fprintf(&b, "%d. [%d] %s\n", i+1, item.Score, orUnknown(item.Title, "No title"))
		fmt.Fprintf(&b, "   Source: %s  |  %s\n", orUnknown(item.Source, "Unknown"), item.URL)
		if item.MatchedPension != "" {
			fmt.Fprintf(&b, "   Pension: %s\n", item.MatchedPension)
		}
		if len(item.MatchedAssets) > 0 {
			fmt.Fprintf(&b, "   Asset Class: %s\n", strings.Join(item.MatchedAssets, ", "))
		}
		if item.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(item.Snippet, 200))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Markdown renders the body stored in the digest history and shown by the
// web UI.
func (d *Digest) Markdown() string {
	if len(d.Items) == 0 {
		return "No new actionable updates found."
	}

	var sections []string
	for _, tier := range []struct {
		label string
		items []score.ScoredResult
	}{
		{"High Priority — Active Allocations", d.High},
		{"Medium Priority — Likely Relevant", d.Medium},
		{"Informational", d.Low},
	} {
		if len(tier.items) == 0 {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "## %s (%d)\n", tier.label, len(tier.items))
		for _, item := range tier.items {
			fmt.Fprintf(&b, "\n### [%s](%s)\n\n", orUnknown(item.Title, "No title"), item.URL)
			fmt.Fprintf(&b, "%s", orUnknown(item.Source, "Unknown"))
			if item.Date != "" {
				fmt.Fprintf(&b, " · %s", shortDate(item.Date))
			}
			fmt.Fprintf(&b, " · Score: %d\n", item.Score)
			if item.Snippet != "" {
				fmt.Fprintf(&b, "\n%s\n", item.Snippet)
			}
			if tags := tagLine(item); tags != "" {
				fmt.Fprintf(&b, "\n*%s*\n", tags)
			}
		}
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n---\n\n")
}

func tagLine(item score.ScoredResult) string {
	var tags []string
	if item.MatchedPension != "" {
		tags = append(tags, item.MatchedPension)
	}
	tags = append(tags, item.MatchedAssets...)
	tags = append(tags, item.MatchedActions...)
	return strings.Join(tags, " · ")
}

// shortDate trims a full ISO-8601 timestamp down to its date part.
func shortDate(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}

// truncate cuts s to at most n bytes, backing off to the previous rune
// boundary so a multibyte character is never split.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

func orUnknown(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
