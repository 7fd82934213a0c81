package score

import (
	"regexp"
	"strings"
)

// musicalKey is the canonical form of a key: pitch class 0–11 (C=0) plus
// mode. Enharmonic spellings and Camelot wheel codes canonicalize to the
// same value.
type musicalKey struct {
	pitch int
	minor bool
}

var camelotRegex = regexp.MustCompile(`^([1-9]|1[0-2])\s*([ab])$`)

var pitchClasses = map[string]int{
	"c": 0, "d": 2, "e": 4, "f": 5, "g": 7, "a": 9, "b": 11,
}

// parseKey canonicalizes a key name. Accepted spellings: note names with
// optional sharp/flat and mode ("F#m", "Bb major", "a min"), and Camelot
// codes ("8A", "11b"). Returns false for anything unrecognized.
func parseKey(raw string) (musicalKey, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "♯", "#")
	s = strings.ReplaceAll(s, "♭", "b")
	if s == "" {
		return musicalKey{}, false
	}

	if m := camelotRegex.FindStringSubmatch(s); m != nil {
		n := 0
		for _, r := range m[1] {
			n = n*10 + int(r-'0')
		}
		// The wheel ascends in fifths: 1A is Ab minor, 1B is B major.
		if m[2] == "a" {
			return musicalKey{pitch: (8 + 7*(n-1)) % 12, minor: true}, true
		}
		return musicalKey{pitch: (11 + 7*(n-1)) % 12, minor: false}, true
	}

	pitch, ok := pitchClasses[s[:1]]
	if !ok {
		return musicalKey{}, false
	}
	// Every '#' or 'b' directly after the note letter is an accidental;
	// mode tokens never start with either.
	rest := s[1:]
	for len(rest) > 0 {
		if rest[0] == '#' {
			pitch = (pitch + 1) % 12
			rest = rest[1:]
			continue
		}
		if rest[0] == 'b' {
			pitch = (pitch + 11) % 12
			rest = rest[1:]
			continue
		}
		break
	}

	rest = strings.TrimSpace(rest)
	switch rest {
	case "", "maj", "major":
		return musicalKey{pitch: pitch, minor: false}, true
	case "m", "min", "minor":
		return musicalKey{pitch: pitch, minor: true}, true
	}
	return musicalKey{}, false
}

// KeysEquivalent reports whether two key spellings denote the same key,
// treating enharmonic names and Camelot codes as equal ("G#m" == "Abm" ==
// "1A"). Unparseable input never matches.
func KeysEquivalent(a, b string) bool {
	ka, ok := parseKey(a)
	if !ok {
		return false
	}
	kb, ok := parseKey(b)
	if !ok {
		return false
	}
	return ka == kb
}
