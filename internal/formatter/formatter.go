package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/wavecrate/cuedex/internal/models"
	"github.com/wavecrate/cuedex/internal/shared"
)

// csvColumns is the fixed column order for CSV export. Candidate columns are
// looked up through the candidate field map so the two stay in sync.
var csvColumns = []string{
	"url", "title", "artists", "key", "bpm", "label", "genre",
	"release_date", "score", "title_sim", "artist_sim",
	"query_index", "candidate_index", "guard_ok", "reject_reason",
}

// ExportToJSON renders results with their full audit trail as indented JSON.
func ExportToJSON(results []models.TrackResult) ([]byte, error) {
	return shared.MarshalJSON(results, true)
}

// ExportToCSV renders one summary row per track: the input entry plus the
// winning candidate's fields, blank when unmatched.
func ExportToCSV(results []models.TrackResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := append([]string{"index", "input_artist", "input_title", "matched"}, csvColumns...)
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, res := range results {
		record := []string{
			strconv.Itoa(res.Index),
			res.Query.Artist,
			res.Query.Title,
			strconv.FormatBool(res.Matched()),
		}
		fields := map[string]string{}
		if res.Best != nil {
			fields = res.Best.FieldMap()
		}
		for _, col := range csvColumns {
			record = append(record, fields[col])
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a resolution report: summary counts, a matched
// table with the metadata a DJ cares about, and the unmatched remainder.
func ExportToMarkdown(results []models.TrackResult) ([]byte, error) {
	var buf bytes.Buffer

	matched := 0
	for _, res := range results {
		if res.Matched() {
			matched++
		}
	}

	buf.WriteString("# Resolution Report\n\n")
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(results)))
	buf.WriteString(fmt.Sprintf("**Matched**: %d\n", matched))
	buf.WriteString(fmt.Sprintf("**Unmatched**: %d\n\n", len(results)-matched))

	buf.WriteString("## Matched\n\n")
	buf.WriteString("| # | Input | Match | Key | BPM | Year | Label | Score |\n")
	buf.WriteString("|---|-------|-------|-----|-----|------|-------|-------|\n")
	for _, res := range results {
		if !res.Matched() {
			continue
		}
		best := res.Best
		year := ""
		if len(best.ReleaseDate) >= 4 {
			year = best.ReleaseDate[:4]
		}
		bpm := ""
		if best.BPM != 0 {
			bpm = strconv.Itoa(best.BPM)
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | [%s](%s) | %s | %s | %s | %s | %d |\n",
			res.Index+1, inputLabel(res.Query), best.Title, best.URL,
			best.Key, bpm, year, best.Label, best.Score))
	}

	if matched < len(results) {
		buf.WriteString("\n## Unmatched\n\n")
		for _, res := range results {
			if res.Matched() {
				continue
			}
			line := fmt.Sprintf("%d. %s", res.Index+1, inputLabel(res.Query))
			if res.Err != "" {
				line += fmt.Sprintf(" (error: %s)", res.Err)
			}
			buf.WriteString(line + "\n")
		}
	}

	return buf.Bytes(), nil
}

func inputLabel(q models.TrackQuery) string {
	if q.Artist == "" {
		return q.Title
	}
	return q.Artist + " - " + q.Title
}

// WriteResults exports results in the given format (json, csv, markdown) to
// path. An empty format means json; unknown formats are rejected.
func WriteResults(results []models.TrackResult, format, path string) error {
	var data []byte
	var err error

	switch format {
	case "csv":
		data, err = ExportToCSV(results)
	case "markdown", "md":
		data, err = ExportToMarkdown(results)
	case "json", "":
		data, err = ExportToJSON(results)
	default:
		return fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
