package search

import (
	"fmt"
	"strings"
	"time"
)

// topFundQueryCount limits per-fund queries to the largest plans by AUM.
// The registry is ordered by AUM, so a prefix is the top of the list.
const topFundQueryCount = 30

// BuildQueries generates the Google CSE query list: broad asset-class
// searches with pension context, then one query per top fund.
func BuildQueries(funds []string) []string {
	year := time.Now().Year()
	queries := []string{
		fmt.Sprintf(`public pension "private credit" allocate commit %d %d`, year, year+1),
		fmt.Sprintf(`public pension "private equity" new fund commitment %d`, year+1),
		fmt.Sprintf(`public pension "venture capital" allocation increase %d`, year+1),
		`state pension "private credit" fund investment approved`,
		`pension fund "direct lending" commitment allocation`,
		`public retirement system "private equity" commit approved`,
		`pension fund "alternative credit" new allocation`,
		`state retirement "private debt" investment approve`,
		`pension board approved "private equity" commitment`,
		`pension board approved "private credit" allocation`,
		`pension fund "emerging manager" private credit equity`,
		`public pension "co-investment" private equity credit`,
	}

	top := funds
	if len(top) > topFundQueryCount {
		top = top[:topFundQueryCount]
	}
	for _, fund := range top {
		queries = append(queries, fmt.Sprintf(
			`%q private credit OR private equity OR venture capital allocation OR commit`,
			shortFundName(fund),
		))
	}

	return queries
}

// shortFundName trims the "Retirement System"/"Retirement" suffix noise
// that hurts search recall for long official plan names.
func shortFundName(fund string) string {
	s := strings.ReplaceAll(fund, "Retirement System", "")
	s = strings.ReplaceAll(s, "Retirement", "")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
