package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wavecrate/cuedex/internal/models"
	"github.com/wavecrate/cuedex/internal/shared"
	testutil "github.com/wavecrate/cuedex/internal/testing"
)

func TestParseCSV(t *testing.T) {
	t.Run("parses rows with optional header", func(t *testing.T) {
		input := "artist,title,year,key\nTim Green,Never Sleep Again,2019,8A\ndeadmau5,Strobe\n"

		queries, err := ParseCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(queries) != 2 {
			t.Fatalf("got %d queries, want 2", len(queries))
		}

		first := queries[0]
		if first.Artist != "Tim Green" || first.Title != "Never Sleep Again" {
			t.Errorf("first = %q / %q", first.Artist, first.Title)
		}
		if first.YearHint != 2019 {
			t.Errorf("year hint = %d", first.YearHint)
		}
		if first.KeyHint != "8A" {
			t.Errorf("key hint = %q", first.KeyHint)
		}
		if queries[1].Index != 1 {
			t.Errorf("second index = %d", queries[1].Index)
		}
	})

	t.Run("rejects rows with a missing title", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("Tim Green\n"))
		if !errors.Is(err, shared.ErrMalformedPlaylist) {
			t.Errorf("got %v, want ErrMalformedPlaylist", err)
		}
	})

	t.Run("rejects a non-numeric year", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("Tim Green,Never Sleep Again,nineteen\n"))
		if !errors.Is(err, shared.ErrMalformedPlaylist) {
			t.Errorf("got %v, want ErrMalformedPlaylist", err)
		}
	})

	t.Run("empty input is an empty playlist", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader(""))
		if !errors.Is(err, shared.ErrEmptyPlaylist) {
			t.Errorf("got %v, want ErrEmptyPlaylist", err)
		}
	})
}

func TestParseM3U(t *testing.T) {
	t.Run("parses EXTINF display names", func(t *testing.T) {
		input := `#EXTM3U
#EXTINF:315,deadmau5 - Strobe
/music/strobe.mp3
#EXTINF:241,Tim Green - Never Sleep Again
/music/nsa.mp3
`
		queries, err := ParseM3U(strings.NewReader(input))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(queries) != 2 {
			t.Fatalf("got %d queries, want 2", len(queries))
		}
		if queries[0].Artist != "deadmau5" || queries[0].Title != "Strobe" {
			t.Errorf("first = %q / %q", queries[0].Artist, queries[0].Title)
		}
	})

	t.Run("display without separator becomes title only", func(t *testing.T) {
		queries, err := ParseM3U(strings.NewReader("#EXTINF:100,Strobe\n"))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if !queries[0].TitleOnly {
			t.Error("expected a title-only query")
		}
		if queries[0].Title != "Strobe" {
			t.Errorf("title = %q", queries[0].Title)
		}
	})

	t.Run("file without EXTINF entries is empty", func(t *testing.T) {
		_, err := ParseM3U(strings.NewReader("/music/a.mp3\n/music/b.mp3\n"))
		if !errors.Is(err, shared.ErrEmptyPlaylist) {
			t.Errorf("got %v, want ErrEmptyPlaylist", err)
		}
	})
}

func TestParseText(t *testing.T) {
	t.Run("skips blanks and comments", func(t *testing.T) {
		input := `# my crate
deadmau5 - Strobe

Tim Green - Never Sleep Again
`
		queries, err := ParseText(strings.NewReader(input))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(queries) != 2 {
			t.Fatalf("got %d queries, want 2", len(queries))
		}
	})

	t.Run("hyphenated titles only split on the spaced separator", func(t *testing.T) {
		queries, err := ParseText(strings.NewReader("Re-Fire\n"))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if queries[0].Title != "Re-Fire" || !queries[0].TitleOnly {
			t.Errorf("got %+v", queries[0])
		}
	})
}

func TestParsePlaylistFile(t *testing.T) {
	t.Run("dispatches on extension", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "crate.csv")
		content := "deadmau5,Strobe\n"
		if err := writeFile(t, path, content); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		queries, err := ParsePlaylistFile(path)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if queries[0].Artist != "deadmau5" {
			t.Errorf("artist = %q", queries[0].Artist)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParsePlaylistFile(filepath.Join(t.TempDir(), "nope.txt"))
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("got %v, want ErrPlaylistNotFound", err)
		}
	})
}

func sampleResults() []models.TrackResult {
	winner := models.Candidate{
		URL:         "https://catalog/t/1",
		Title:       "Strobe (Original Mix)",
		Artists:     "deadmau5",
		Key:         "B maj",
		BPM:         128,
		Label:       "mau5trap",
		ReleaseDate: "2009-09-22",
		Score:       110,
		GuardOK:     true,
		IsWinner:    true,
	}
	return []models.TrackResult{
		{
			Index:      0,
			Query:      models.TrackQuery{Index: 0, Title: "Strobe", Artist: "deadmau5"},
			Best:       &winner,
			Candidates: []models.Candidate{winner},
			Audits:     []models.QueryAudit{{Query: "strobe deadmau5", CandidatesFound: 1}},
		},
		{
			Index:          1,
			Query:          models.TrackQuery{Index: 1, Title: "Lost Dub", Artist: "Nobody"},
			LastQueryIndex: 3,
		},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleResults())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(records))
	}

	header, matched, unmatched := records[0], records[1], records[2]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("missing column %q", name)
		return -1
	}

	if matched[col("matched")] != "true" {
		t.Error("first row should be matched")
	}
	if matched[col("url")] != "https://catalog/t/1" {
		t.Errorf("url = %q", matched[col("url")])
	}
	if matched[col("score")] != "110" {
		t.Errorf("score = %q", matched[col("score")])
	}
	if unmatched[col("matched")] != "false" {
		t.Error("second row should be unmatched")
	}
	if unmatched[col("url")] != "" {
		t.Error("unmatched row should have blank candidate columns")
	}
}

func TestExportToJSON(t *testing.T) {
	data, err := ExportToJSON(sampleResults())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var decoded []models.TrackResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d results", len(decoded))
	}
	if decoded[0].Best == nil || decoded[0].Best.URL != "https://catalog/t/1" {
		t.Error("winner lost in round trip")
	}
	if len(decoded[0].Audits) != 1 {
		t.Error("audit trail lost in round trip")
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleResults())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	report := string(data)

	for _, want := range []string{
		"**Matched**: 1",
		"**Unmatched**: 1",
		"Strobe (Original Mix)",
		"mau5trap",
		"Nobody - Lost Dub",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteResults(t *testing.T) {
	t.Run("writes the chosen format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		if err := WriteResults(sampleResults(), "csv", path); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		testutil.AssertFileExists(t, path)
		if !strings.Contains(testutil.MustReadFile(t, path), "input_title") {
			t.Error("CSV header missing from file")
		}
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		err := WriteResults(sampleResults(), "yaml", filepath.Join(t.TempDir(), "out"))
		if !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("got %v, want ErrUnsupportedFormat", err)
		}
	})
}

func writeFile(t *testing.T, path, content string) error {
	t.Helper()
	return os.WriteFile(path, []byte(content), 0644)
}
