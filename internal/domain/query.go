package domain

import (
	"sort"
	"strings"
	"time"
)

// DefaultTopN is the ranking size used by the stats views.
const DefaultTopN = 3

// RankedEntry is one row of a ranking: a group label and how many quotes
// fell into that group.
type RankedEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Filter returns the quotes matching both predicates, preserving input order.
// A quote matches when the category filter is empty or equals the quote's
// category exactly, and the search text is empty or appears case-insensitively
// in the book title, author, or quote text. An empty result is a valid outcome.
// The input is never mutated; the result is always a fresh slice.
func Filter(quotes []Quote, searchText, category string) []Quote {
	needle := strings.ToLower(strings.TrimSpace(searchText))
	out := make([]Quote, 0, len(quotes))

	for _, q := range quotes {
		if category != "" && q.Category != category {
			continue
		}

		if needle != "" && !matchesSearch(q, needle) {
			continue
		}

		out = append(out, q)
	}

	return out
}

// matchesSearch reports whether the lowercased needle occurs in any of the
// quote's searchable fields.
func matchesSearch(q Quote, needle string) bool {
	return strings.Contains(strings.ToLower(q.BookTitle), needle) ||
		strings.Contains(strings.ToLower(q.Author), needle) ||
		strings.Contains(strings.ToLower(q.Text), needle)
}

// TopBooks ranks book titles by quote count, descending, truncated to n.
// Blank titles count under UnknownBook. Ties keep first-seen order.
// n <= 0 applies DefaultTopN.
func TopBooks(quotes []Quote, n int) []RankedEntry {
	return rank(quotes, n, func(q Quote) string {
		if strings.TrimSpace(q.BookTitle) == "" {
			return UnknownBook
		}

		return q.BookTitle
	})
}

// TopCategories ranks categories by quote count, descending, truncated to n.
// Uncategorized quotes count under UncategorizedLabel. Ties keep first-seen
// order. n <= 0 applies DefaultTopN.
func TopCategories(quotes []Quote, n int) []RankedEntry {
	return rank(quotes, n, func(q Quote) string {
		if strings.TrimSpace(q.Category) == "" {
			return UncategorizedLabel
		}

		return q.Category
	})
}

// rank groups quotes by keyFn, counts each group, and returns the top n
// groups sorted by count descending with first-seen order breaking ties.
func rank(quotes []Quote, n int, keyFn func(Quote) string) []RankedEntry {
	if n <= 0 {
		n = DefaultTopN
	}

	counts := make(map[string]int, len(quotes))
	order := make([]string, 0, len(quotes))

	for _, q := range quotes {
		key := keyFn(q)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}

		counts[key]++
	}

	entries := make([]RankedEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, RankedEntry{Label: key, Count: counts[key]})
	}

	// Stable keeps first-seen order among equal counts.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if len(entries) > n {
		entries = entries[:n]
	}

	return entries
}

// RecentCount counts quotes whose creation date falls within the window
// [referenceDate - windowDays, referenceDate]. The lower bound is inclusive.
// Quotes with malformed dates are skipped rather than failing the count.
func RecentCount(quotes []Quote, windowDays int, referenceDate time.Time) int {
	ref := truncateToDay(referenceDate)
	cutoff := ref.AddDate(0, 0, -windowDays)

	count := 0

	for _, q := range quotes {
		d, err := time.Parse(DateLayout, q.Date)
		if err != nil {
			continue
		}

		if !d.Before(cutoff) && !d.After(ref) {
			count++
		}
	}

	return count
}

// TotalCount returns the size of the collection.
func TotalCount(quotes []Quote) int {
	return len(quotes)
}

// DistinctCategories returns the distinct non-empty categories in first-seen
// order, derived fresh from the supplied snapshot.
func DistinctCategories(quotes []Quote) []string {
	seen := make(map[string]struct{}, len(quotes))
	out := make([]string, 0, len(quotes))

	for _, q := range quotes {
		if q.Category == "" {
			continue
		}

		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}

	return out
}

// truncateToDay drops the time-of-day component so window comparisons work
// on calendar days, matching the day-granular stored dates.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
