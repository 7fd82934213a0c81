// Package mix parses mix-type intent out of track titles.
//
// DJ-facing titles decorate the song name with a trailing parenthetical or
// dash suffix: "Never Sleep Again (Original Mix)", "Track - Ivory Remix".
// [Parse] recognizes a fixed vocabulary of mix phrases and collects anything
// else as a generic distinguishing phrase usable for near-exact matching.
package mix

import (
	"regexp"
	"strings"

	"github.com/wavecrate/cuedex/internal/fuzzy"
	"github.com/wavecrate/cuedex/internal/models"
)

var (
	parenRegex = regexp.MustCompile(`[(\[]([^)\]]*)[)\]]`)
	dashRegex  = regexp.MustCompile(`\s[-–]\s(.+)$`)
)

// originalPhrases and extendedPhrases are matched against whole lowercased
// parenthetical content.
var (
	originalPhrases = map[string]struct{}{
		"original mix":     {},
		"original version": {},
		"original":         {},
	}
	extendedPhrases = map[string]struct{}{
		"extended mix":     {},
		"extended version": {},
		"extended":         {},
	}
	// editPhrases carry no remixer and no generic value; they mark the
	// track as a non-original cut without remix intent.
	editPhrases = map[string]struct{}{
		"radio edit": {},
		"radio mix":  {},
		"club mix":   {},
		"edit":       {},
	}
)

// remixSuffixes terminate a "<Name> Remix"-shaped phrase. The leading words
// name the remixer.
var remixSuffixes = []string{"remix", "rework", "re-work", "flip", "bootleg", "vip"}

// Parse derives a MixDescriptor from a raw title. Pure, total and
// deterministic; a title with no parenthetical or dash-suffix content yields
// IsPlain=true.
func Parse(title string) *models.MixDescriptor {
	d := &models.MixDescriptor{}

	phrases := collectPhrases(title)
	if len(phrases) == 0 {
		d.IsPlain = true
		return d
	}

	for _, phrase := range phrases {
		classify(d, phrase)
	}
	return d
}

// BaseTitle strips every parenthetical and dash suffix, leaving the song
// name itself.
func BaseTitle(title string) string {
	title = parenRegex.ReplaceAllString(title, " ")
	title = dashRegex.ReplaceAllString(title, " ")
	return strings.Join(strings.Fields(title), " ")
}

// collectPhrases pulls every parenthetical plus a trailing dash suffix,
// lowercased and trimmed, in order of appearance.
func collectPhrases(title string) []string {
	var phrases []string
	for _, m := range parenRegex.FindAllStringSubmatch(title, -1) {
		if p := strings.TrimSpace(strings.ToLower(m[1])); p != "" {
			phrases = append(phrases, p)
		}
	}
	stripped := parenRegex.ReplaceAllString(title, " ")
	if m := dashRegex.FindStringSubmatch(stripped); m != nil {
		if p := strings.TrimSpace(strings.ToLower(m[1])); p != "" {
			phrases = append(phrases, p)
		}
	}
	return phrases
}

func classify(d *models.MixDescriptor, phrase string) {
	if _, ok := originalPhrases[phrase]; ok {
		d.IsOriginal = true
		return
	}
	if _, ok := extendedPhrases[phrase]; ok {
		d.IsExtended = true
		return
	}
	if _, ok := editPhrases[phrase]; ok {
		return
	}
	if remixer, ok := splitRemixPhrase(phrase); ok {
		d.IsRemix = true
		if remixer != "" {
			d.Remixers = appendUnique(d.Remixers, fuzzy.Tokens(remixer)...)
		}
		return
	}
	d.Phrases = appendUnique(d.Phrases, phrase)
}

// splitRemixPhrase reports whether phrase has the shape "<name> remix" (or a
// recognized synonym) and returns the naming part. A bare "remix" matches
// with an empty name.
func splitRemixPhrase(phrase string) (string, bool) {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return "", false
	}
	last := words[len(words)-1]
	for _, suffix := range remixSuffixes {
		if last == suffix {
			name := strings.Join(words[:len(words)-1], " ")
			// "extended remix" names no remixer either
			if _, ok := extendedPhrases[name]; ok {
				return "", true
			}
			return name, true
		}
	}
	return "", false
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
