// Package fuzzy provides text canonicalization and similarity scoring for
// track titles and artist strings.
//
// [Normalize] is pure and total: it never fails and maps empty input to
// empty output. [Similarity] returns an integer in [0,100] where identical
// normalized strings score 100 and strings sharing no tokens score near 0.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

var (
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes text for comparison: NFKD decomposition with
// combining marks stripped, lowercased, "&" folded to "and", punctuation
// replaced by spaces, whitespace collapsed.
func Normalize(text string) string {
	text = norm.NFKD.String(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !unicode.IsMark(r) {
			b.WriteRune(r)
		}
	}
	text = strings.ToLower(b.String())

	text = strings.ReplaceAll(text, "&", " and ")
	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokens returns the normalized whitespace-separated tokens of text.
func Tokens(text string) []string {
	n := Normalize(text)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

// Similarity scores two strings in [0,100]. It normalizes both sides, then
// takes the better of edit-distance similarity and token overlap, so both
// near-identical spellings and reordered token sets score high.
func Similarity(a, b string) int {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		if na == "" {
			return 0
		}
		return 100
	}
	if na == "" || nb == "" {
		return 0
	}

	edit := editSimilarity(na, nb)
	overlap := tokenOverlap(strings.Fields(na), strings.Fields(nb))
	if overlap > edit {
		return overlap
	}
	return edit
}

// editSimilarity converts Levenshtein distance to a [0,100] ratio over the
// longer string.
func editSimilarity(a, b string) int {
	dist := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	sim := 100 - (100*dist)/longest
	if sim < 0 {
		return 0
	}
	return sim
}

// tokenOverlap scores shared tokens against the larger token set. The ratio
// (shared+1)/(size+1) grows whenever a shared token is added to either side,
// which keeps Similarity monotonic under shared-token growth.
func tokenOverlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	seen := make(map[string]struct{}, len(b))
	shared := 0
	for _, t := range b {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			shared++
		}
	}
	larger := len(set)
	if len(seen) > larger {
		larger = len(seen)
	}
	return (100 * shared) / larger
}
