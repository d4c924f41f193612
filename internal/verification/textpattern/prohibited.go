package textpattern

import (
	"sort"
	"strings"
)

// ProhibitedHit reports prohibited-content keywords found in a text, grouped
// by lexicon category. Categories are sorted so output is reproducible
// regardless of lexicon map iteration order.
type ProhibitedHit struct {
	Found      bool
	Categories []string
	Keywords   []string
}

// DetectProhibited scans text against a category -> keyword-list lexicon
// (weapons, adult content, money laundering, ...). Matching is substring,
// case-insensitive, on the lower-cased text.
func DetectProhibited(text string, lexicon map[string][]string) ProhibitedHit {
	if text == "" || len(lexicon) == 0 {
		return ProhibitedHit{}
	}

	lowered := strings.ToLower(text)

	categories := make([]string, 0, len(lexicon))
	for category := range lexicon {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var hit ProhibitedHit
	for _, category := range categories {
		matched := false
		for _, keyword := range lexicon[category] {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				matched = true
				hit.Keywords = append(hit.Keywords, keyword)
			}
		}
		if matched {
			hit.Categories = append(hit.Categories, category)
		}
	}

	hit.Found = len(hit.Categories) > 0
	return hit
}

// Excerpt returns the first n runes of text for alert evidence, never
// cutting a rune in half.
func Excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
