// Package score turns raw fetched release fields into scored [models.Candidate]
// values: weighted title/artist similarity, metadata agreement bonuses, mix
// compatibility, and a hard guard verdict for remix mismatches.
package score

import (
	"strconv"
	"strings"

	"github.com/wavecrate/cuedex/internal/fuzzy"
	"github.com/wavecrate/cuedex/internal/mix"
	"github.com/wavecrate/cuedex/internal/models"
)

// Config holds the scoring weights and bonus magnitudes. The zero value is
// not usable; start from [DefaultConfig].
type Config struct {
	TitleWeight  int // numerator parts for title similarity
	ArtistWeight int // numerator parts for artist similarity

	YearTolerance  int // years of slack still earning the near bonus
	BonusYearExact int
	BonusYearNear  int
	BonusKey       int

	MixMatchBonus      int // matching mix intent
	MixMismatchPenalty int // remix-vs-original confusion, applied negatively
	PhraseBonus        int // shared generic parenthetical phrase
	PreferPlainBonus   int // plain candidate for a prefer-plain input
}

// DefaultConfig returns the tuning used in production. Title similarity is
// weighted heavier than artist similarity.
func DefaultConfig() Config {
	return Config{
		TitleWeight:        3,
		ArtistWeight:       2,
		YearTolerance:      1,
		BonusYearExact:     8,
		BonusYearNear:      4,
		BonusKey:           6,
		MixMatchBonus:      10,
		MixMismatchPenalty: 25,
		PhraseBonus:        8,
		PreferPlainBonus:   4,
	}
}

// Scorer scores fetched release fields against a track query.
type Scorer struct {
	cfg Config
}

// New creates a Scorer with the given configuration.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score builds a validated candidate from raw release fields. queryIndex and
// candidateIndex record provenance; elapsedMS the fetch latency.
func (s *Scorer) Score(q models.TrackQuery, fields models.ReleaseFields, queryIndex, candidateIndex int, elapsedMS int64) (models.Candidate, error) {
	queryMix := q.Mix
	if queryMix == nil {
		queryMix = mix.Parse(q.Title)
	}
	candMix := mix.Parse(fields.Title)

	titleSim := fuzzy.Similarity(mix.BaseTitle(q.Title), mix.BaseTitle(fields.Title))
	artistSim := 0
	if !q.TitleOnly && q.Artist != "" {
		artistSim = fuzzy.Similarity(q.Artist, fields.Artists)
	}

	base := s.baseScore(q, titleSim, artistSim)
	bonusYear := s.yearBonus(q.YearHint, candidateYear(fields))
	bonusKey := 0
	if q.KeyHint != "" && KeysEquivalent(q.KeyHint, fields.Key) {
		bonusKey = s.cfg.BonusKey
	}
	mixTerm := s.mixTerm(q, queryMix, candMix)

	guardOK, reason := s.guard(queryMix, candMix)

	final := base + bonusYear + bonusKey + mixTerm
	if final < 0 {
		final = 0
	}

	return models.NewCandidate(models.Candidate{
		URL:            fields.URL,
		Title:          fields.Title,
		Artists:        fields.Artists,
		Label:          fields.Label,
		ReleaseDate:    fields.ReleaseDate,
		BPM:            fields.BPM,
		Key:            fields.Key,
		Genre:          fields.Genre,
		Score:          final,
		TitleSim:       titleSim,
		ArtistSim:      artistSim,
		QueryIndex:     queryIndex,
		CandidateIndex: candidateIndex,
		BaseScore:      base,
		BonusYear:      bonusYear,
		BonusKey:       bonusKey,
		MixBonus:       mixTerm,
		GuardOK:        guardOK,
		RejectReason:   reason,
		ElapsedMS:      elapsedMS,
	})
}

// MixCompatible is the early-exit predicate: the candidate's mix shape must
// agree with the input's intent, not merely score highest.
func MixCompatible(queryMix, candMix *models.MixDescriptor) bool {
	if queryMix == nil {
		return true
	}
	switch {
	case queryMix.IsRemix:
		if !candMix.IsRemix {
			return false
		}
		return !queryMix.HasRemixer() || tokenOverlap(queryMix.Remixers, candMix.Remixers)
	case queryMix.PreferPlain:
		return candMix.IsPlain || candMix.IsOriginal
	default:
		return !candMix.IsRemix
	}
}

func (s *Scorer) baseScore(q models.TrackQuery, titleSim, artistSim int) int {
	// With no artist context the title carries the whole weight; otherwise
	// the base would be capped below any sensible accept threshold.
	if q.TitleOnly || q.Artist == "" {
		return titleSim
	}
	tw, aw := s.cfg.TitleWeight, s.cfg.ArtistWeight
	return (tw*titleSim + aw*artistSim) / (tw + aw)
}

func (s *Scorer) yearBonus(hint, year int) int {
	if hint == 0 || year == 0 {
		return 0
	}
	diff := hint - year
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return s.cfg.BonusYearExact
	case diff <= s.cfg.YearTolerance:
		return s.cfg.BonusYearNear
	default:
		return 0
	}
}

func (s *Scorer) mixTerm(q models.TrackQuery, queryMix, candMix *models.MixDescriptor) int {
	term := 0

	switch {
	case queryMix.IsRemix:
		if candMix.IsRemix && (!queryMix.HasRemixer() || tokenOverlap(queryMix.Remixers, candMix.Remixers)) {
			term += s.cfg.MixMatchBonus
		} else {
			term -= s.cfg.MixMismatchPenalty
		}
	case candMix.IsRemix:
		// Input wants the original cut, candidate is somebody's remix.
		term -= s.cfg.MixMismatchPenalty
	case candMix.IsOriginal:
		term += s.cfg.MixMatchBonus
	case queryMix.IsExtended && candMix.IsExtended:
		term += s.cfg.MixMatchBonus
	}

	if queryMix.PreferPlain && candMix.IsPlain {
		term += s.cfg.PreferPlainBonus
	}

	if phraseMatch(q, queryMix, candMix) {
		term += s.cfg.PhraseBonus
	}
	return term
}

// guard enforces the hard constraint: an explicit remix request whose
// remixer tokens share nothing with the candidate's can never win.
func (s *Scorer) guard(queryMix, candMix *models.MixDescriptor) (bool, string) {
	if queryMix.IsRemix && queryMix.HasRemixer() && !tokenOverlap(queryMix.Remixers, candMix.Remixers) {
		return false, "remixer mismatch: wanted " + strings.Join(queryMix.Remixers, " ")
	}
	return true, ""
}

func phraseMatch(q models.TrackQuery, queryMix, candMix *models.MixDescriptor) bool {
	if len(candMix.Phrases) == 0 {
		return false
	}
	want := append([]string{}, queryMix.Phrases...)
	for _, hint := range q.GenericHints {
		want = append(want, fuzzy.Normalize(hint))
	}
	for _, phrase := range candMix.Phrases {
		normalized := fuzzy.Normalize(phrase)
		for _, w := range want {
			if fuzzy.Normalize(w) == normalized {
				return true
			}
		}
	}
	return false
}

func tokenOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(x, y) {
				return true
			}
		}
	}
	return false
}

// candidateYear prefers the explicit year field, falling back to the leading
// year of a release date like "2019-06-14".
func candidateYear(fields models.ReleaseFields) int {
	if fields.Year != 0 {
		return fields.Year
	}
	date := fields.ReleaseDate
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y
		}
	}
	return 0
}
