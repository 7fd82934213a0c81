// Package query builds the ordered search query plan for one track.
//
// [Generate] emits a finite, case-insensitively deduplicated sequence of
// query strings, most specific first: full title+artist combinations come
// before reduced-artist, prefix and title-only fallbacks. Generation is
// fully deterministic for a given input, which makes the plan cacheable and
// the matcher's behavior reproducible.
package query

import (
	"strings"

	"github.com/wavecrate/cuedex/internal/fuzzy"
	"github.com/wavecrate/cuedex/internal/mix"
	"github.com/wavecrate/cuedex/internal/models"
)

const (
	// maxArtistTokens bounds subset joins so multi-artist strings cannot
	// explode combinatorially.
	maxArtistTokens = 4
	// longTitleTokens is the token count from which prefix queries kick in.
	longTitleTokens = 5
)

// plan accumulates queries in priority order with case-insensitive
// deduplication.
type plan struct {
	queries []string
	seen    map[string]struct{}
}

func (p *plan) add(parts ...string) {
	var fields []string
	for _, part := range parts {
		fields = append(fields, strings.Fields(fuzzy.Normalize(part))...)
	}
	if len(fields) == 0 {
		return
	}
	q := strings.Join(fields, " ")
	if _, dup := p.seen[q]; dup {
		return
	}
	p.seen[q] = struct{}{}
	p.queries = append(p.queries, q)
}

// Generate builds the query plan for a track. Empty title and artist yield
// an empty (not nil-error) plan.
func Generate(q models.TrackQuery) []string {
	p := &plan{seen: make(map[string]struct{})}

	descriptor := q.Mix
	if descriptor == nil {
		descriptor = mix.Parse(q.Title)
	}

	base := mix.BaseTitle(q.Title)
	artist := ""
	if !q.TitleOnly {
		artist = q.Artist
	}
	remixer := strings.Join(descriptor.Remixers, " ")

	// Most specific: the full decorated title.
	p.add(q.Title, artist)

	// Generic distinguishing phrases beat plain-title fallbacks: a phrase
	// like "ivory re-fire" is often the only thing separating two releases.
	for _, phrase := range descriptor.Phrases {
		p.add(base, phrase, artist)
	}
	for _, hint := range q.GenericHints {
		p.add(base, hint, artist)
	}

	// Remix-aware variants.
	if descriptor.IsRemix {
		if remixer != "" {
			p.add(base, remixer, "remix", artist)
			p.add(base, remixer, artist)
			p.add(base, remixer, "remix")
		} else {
			p.add(base, "remix", artist)
		}
	}

	p.add(base, artist)

	// Prefix sequences help long or subtitle-heavy titles that catalogs
	// truncate.
	titleTokens := fuzzy.Tokens(base)
	if len(titleTokens) >= longTitleTokens {
		for n := longTitleTokens - 1; n >= 3; n-- {
			p.add(strings.Join(titleTokens[:n], " "), artist)
		}
	}

	// Artist-token subset joins: pairs first, then single tokens.
	artistTokens := fuzzy.Tokens(artist)
	if len(artistTokens) > maxArtistTokens {
		artistTokens = artistTokens[:maxArtistTokens]
	}
	if len(artistTokens) > 1 {
		for i := 0; i < len(artistTokens); i++ {
			for j := i + 1; j < len(artistTokens); j++ {
				p.add(base, artistTokens[i], artistTokens[j])
			}
		}
		for _, tok := range artistTokens {
			p.add(base, tok)
		}
	}

	// Title-only and remixer-title fallbacks close the plan.
	if remixer != "" {
		p.add(base, remixer)
	}
	p.add(base)

	return p.queries
}
