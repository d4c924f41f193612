// Package fuzzy provides the text-similarity primitives shared by the
// verification phases: diacritic-insensitive name similarity and
// stopword-filtered token-Jaccard overlap.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Normalize lower-cases, strips diacritics, and collapses whitespace so that
// "María García" and "maria garcia" compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NameSimilarity returns a Ratcliff/Obershelp similarity ratio in [0,1]
// between two names after normalization. Empty input scores 0.
func NameSimilarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	ra, rb := []rune(na), []rune(nb)
	total := len(ra) + len(rb)
	matched := matchingChars(ra, rb)
	return 2 * float64(matched) / float64(total)
}

// matchingChars recursively sums the longest common substring and the
// matches on either side of it, per Ratcliff/Obershelp.
func matchingChars(a, b []rune) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	prev := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			}
		}
		prev = cur
	}
	return ai, bi, size
}

// TokenJaccard computes |intersection| / |union| over the lower-cased word
// tokens of both texts after removing stopwords. Returns 0 if either side
// has no tokens left.
func TokenJaccard(a, b string, stopwords []string) float64 {
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}

	setA := tokenSet(a, stop)
	setB := tokenSet(b, stop)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(text string, stop map[string]struct{}) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, skip := stop[token]; skip {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}
