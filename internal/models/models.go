package models

import (
	"fmt"
	"strconv"
	"time"
)

// TrackQuery describes a single playlist entry to resolve against the
// catalog. It is immutable for the duration of one resolution.
type TrackQuery struct {
	Index        int            // position in the source playlist
	Title        string         // raw title as it appears in the playlist
	Artist       string         // artist string used for scoring
	TitleOnly    bool           // skip artist-based queries and scoring context
	YearHint     int            // 0 when unknown
	KeyHint      string         // musical key hint, e.g. "Am" or "8A"; empty when unknown
	Mix          *MixDescriptor // parsed mix intent; nil means "parse from Title"
	GenericHints []string       // distinguishing parenthetical phrases, e.g. "Ivory Re-fire"
}

// MixDescriptor is the parsed representation of a title's mix-type intent.
// Derived once per title and treated as a value object afterwards.
type MixDescriptor struct {
	IsOriginal  bool
	IsRemix     bool
	IsExtended  bool
	IsPlain     bool // no parenthetical or dash-suffix content at all
	PreferPlain bool // caller wants the undecorated release when available
	Remixers    []string
	Phrases     []string // generic parenthetical phrases, lowercased
}

// HasRemixer reports whether the descriptor names at least one remixer token.
func (m *MixDescriptor) HasRemixer() bool {
	return m != nil && len(m.Remixers) > 0
}

// ReleaseFields holds the raw, unscored fields the fetch collaborator
// extracted from a catalog release page.
type ReleaseFields struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Artists     string `json:"artists"`
	Key         string `json:"key,omitempty"`
	Year        int    `json:"year,omitempty"`
	BPM         int    `json:"bpm,omitempty"`
	Label       string `json:"label,omitempty"`
	Genre       string `json:"genre,omitempty"`
	ReleaseName string `json:"release_name,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
}

// Candidate is one scored catalog entry considered as a possible match.
//
// Candidates are created by the scorer via [NewCandidate] and never mutated
// afterwards, except for IsWinner which the matcher flips once on the
// selected entry.
type Candidate struct {
	URL            string `json:"url"`
	Title          string `json:"title"`
	Artists        string `json:"artists"`
	Label          string `json:"label,omitempty"`
	ReleaseDate    string `json:"release_date,omitempty"`
	BPM            int    `json:"bpm,omitempty"`
	Key            string `json:"key,omitempty"`
	Genre          string `json:"genre,omitempty"`
	Score          int    `json:"score"`
	TitleSim       int    `json:"title_sim"`
	ArtistSim      int    `json:"artist_sim"`
	QueryIndex     int    `json:"query_index"`
	CandidateIndex int    `json:"candidate_index"`
	BaseScore      int    `json:"base_score"`
	BonusYear      int    `json:"bonus_year"`
	BonusKey       int    `json:"bonus_key"`
	MixBonus       int    `json:"mix_bonus"` // signed: mismatch penalties are negative
	GuardOK        bool   `json:"guard_ok"`
	RejectReason   string `json:"reject_reason,omitempty"`
	ElapsedMS      int64  `json:"elapsed_ms"`
	IsWinner       bool   `json:"is_winner"`
}

// NewCandidate validates the scoring invariants and returns the constructed
// candidate. A negative final score clamps to zero; out-of-range similarity
// values or an empty URL fail fast so a malformed candidate can never enter
// best-so-far selection.
func NewCandidate(c Candidate) (Candidate, error) {
	if c.URL == "" {
		return Candidate{}, fmt.Errorf("candidate URL must not be empty")
	}
	if c.TitleSim < 0 || c.TitleSim > 100 {
		return Candidate{}, fmt.Errorf("title similarity %d out of range [0,100]", c.TitleSim)
	}
	if c.ArtistSim < 0 || c.ArtistSim > 100 {
		return Candidate{}, fmt.Errorf("artist similarity %d out of range [0,100]", c.ArtistSim)
	}
	if !c.GuardOK && c.RejectReason == "" {
		return Candidate{}, fmt.Errorf("guard-rejected candidate must carry a reject reason")
	}
	if c.GuardOK && c.RejectReason != "" {
		return Candidate{}, fmt.Errorf("guard-accepted candidate must not carry a reject reason")
	}
	if c.Score < 0 {
		c.Score = 0
	}
	c.IsWinner = false
	return c, nil
}

// FieldMap serializes the candidate to a flat string map, the format used by
// CSV export and the cache. [CandidateFromFieldMap] inverts it exactly.
func (c Candidate) FieldMap() map[string]string {
	return map[string]string{
		"url":             c.URL,
		"title":           c.Title,
		"artists":         c.Artists,
		"label":           c.Label,
		"release_date":    c.ReleaseDate,
		"bpm":             strconv.Itoa(c.BPM),
		"key":             c.Key,
		"genre":           c.Genre,
		"score":           strconv.Itoa(c.Score),
		"title_sim":       strconv.Itoa(c.TitleSim),
		"artist_sim":      strconv.Itoa(c.ArtistSim),
		"query_index":     strconv.Itoa(c.QueryIndex),
		"candidate_index": strconv.Itoa(c.CandidateIndex),
		"base_score":      strconv.Itoa(c.BaseScore),
		"bonus_year":      strconv.Itoa(c.BonusYear),
		"bonus_key":       strconv.Itoa(c.BonusKey),
		"mix_bonus":       strconv.Itoa(c.MixBonus),
		"guard_ok":        strconv.FormatBool(c.GuardOK),
		"reject_reason":   c.RejectReason,
		"elapsed_ms":      strconv.FormatInt(c.ElapsedMS, 10),
		"is_winner":       strconv.FormatBool(c.IsWinner),
	}
}

// CandidateFromFieldMap reconstructs a candidate from its field map.
func CandidateFromFieldMap(m map[string]string) (Candidate, error) {
	atoi := func(key string) (int, error) {
		if m[key] == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(m[key])
		if err != nil {
			return 0, fmt.Errorf("field %s: %w", key, err)
		}
		return v, nil
	}

	var c Candidate
	var err error
	c.URL = m["url"]
	c.Title = m["title"]
	c.Artists = m["artists"]
	c.Label = m["label"]
	c.ReleaseDate = m["release_date"]
	c.Key = m["key"]
	c.Genre = m["genre"]
	c.RejectReason = m["reject_reason"]

	for key, dst := range map[string]*int{
		"bpm":             &c.BPM,
		"score":           &c.Score,
		"title_sim":       &c.TitleSim,
		"artist_sim":      &c.ArtistSim,
		"query_index":     &c.QueryIndex,
		"candidate_index": &c.CandidateIndex,
		"base_score":      &c.BaseScore,
		"bonus_year":      &c.BonusYear,
		"bonus_key":       &c.BonusKey,
		"mix_bonus":       &c.MixBonus,
	} {
		if *dst, err = atoi(key); err != nil {
			return Candidate{}, err
		}
	}

	if c.GuardOK, err = strconv.ParseBool(m["guard_ok"]); err != nil {
		return Candidate{}, fmt.Errorf("field guard_ok: %w", err)
	}
	if c.ElapsedMS, err = strconv.ParseInt(m["elapsed_ms"], 10, 64); err != nil {
		return Candidate{}, fmt.Errorf("field elapsed_ms: %w", err)
	}
	if c.IsWinner, err = strconv.ParseBool(m["is_winner"]); err != nil {
		return Candidate{}, fmt.Errorf("field is_winner: %w", err)
	}
	return c, nil
}

// QueryAudit records one issued query's text, position, yield and timing.
type QueryAudit struct {
	Query           string `json:"query"`
	QueryIndex      int    `json:"query_index"`
	CandidatesFound int    `json:"candidates_found"`
	ElapsedMS       int64  `json:"elapsed_ms"`
}

// TrackResult is the complete output of one track's resolution run. Owned
// exclusively by the caller once returned.
type TrackResult struct {
	Index          int          `json:"index"` // originating position in the playlist
	Query          TrackQuery   `json:"-"`
	Best           *Candidate   `json:"best,omitempty"`
	Candidates     []Candidate  `json:"candidates"` // includes guard-rejected entries
	Audits         []QueryAudit `json:"audits"`
	LastQueryIndex int          `json:"last_query_index"` // -1 when no query was issued
	Err            string       `json:"error,omitempty"`  // invariant violation, never transient failures
}

// Matched reports whether the resolution selected a winner.
func (r *TrackResult) Matched() bool {
	return r.Best != nil
}

// ProgressInfo carries aggregate playlist resolution progress. Mutated only
// by the track pool; consumers treat it as read-only.
type ProgressInfo struct {
	RunID           string
	TotalTracks     int
	CompletedTracks int
	MatchedCount    int
	UnmatchedCount  int
	CurrentTrack    string
	Elapsed         time.Duration
	Final           bool // set on the unconditional last update
}
