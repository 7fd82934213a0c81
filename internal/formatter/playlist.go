// package formatter parses playlist files into track queries and exports
// resolution results to various formats (JSON, CSV, Markdown)
package formatter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wavecrate/cuedex/internal/models"
	"github.com/wavecrate/cuedex/internal/shared"
)

// ParsePlaylistFile reads a playlist file and returns one track query per
// entry. The format is inferred from the file extension: .csv, .m3u/.m3u8,
// anything else is treated as plain text ("Artist - Title" per line).
func ParsePlaylistFile(path string) ([]models.TrackQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistNotFound, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(f)
	case ".m3u", ".m3u8":
		return ParseM3U(f)
	default:
		return ParseText(f)
	}
}

// ParseCSV parses rows of artist,title[,year[,key]]. A leading header row is
// skipped when its first cell reads "artist".
func ParseCSV(r io.Reader) ([]models.TrackQuery, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedPlaylist, err)
	}

	var queries []models.TrackQuery
	for i, record := range records {
		if i == 0 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "artist") {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: row %d has %d columns, want at least 2", shared.ErrMalformedPlaylist, i+1, len(record))
		}

		q := models.TrackQuery{
			Index:  len(queries),
			Artist: strings.TrimSpace(record[0]),
			Title:  strings.TrimSpace(record[1]),
		}
		if q.Title == "" {
			return nil, fmt.Errorf("%w: row %d has an empty title", shared.ErrMalformedPlaylist, i+1)
		}
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			year, err := strconv.Atoi(strings.TrimSpace(record[2]))
			if err != nil {
				return nil, fmt.Errorf("%w: row %d year %q", shared.ErrMalformedPlaylist, i+1, record[2])
			}
			q.YearHint = year
		}
		if len(record) > 3 {
			q.KeyHint = strings.TrimSpace(record[3])
		}
		queries = append(queries, q)
	}

	if len(queries) == 0 {
		return nil, shared.ErrEmptyPlaylist
	}
	return queries, nil
}

// ParseM3U parses extended M3U playlists. Track names come from #EXTINF
// lines ("#EXTINF:123,Artist - Title"); media lines without a preceding
// EXTINF entry are ignored since file paths carry no usable metadata.
func ParseM3U(r io.Reader) ([]models.TrackQuery, error) {
	scanner := bufio.NewScanner(r)

	var queries []models.TrackQuery
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#EXTINF:") {
			continue
		}

		_, display, found := strings.Cut(line, ",")
		if !found || strings.TrimSpace(display) == "" {
			return nil, fmt.Errorf("%w: EXTINF without a display name", shared.ErrMalformedPlaylist)
		}
		queries = append(queries, queryFromDisplay(len(queries), display))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedPlaylist, err)
	}

	if len(queries) == 0 {
		return nil, shared.ErrEmptyPlaylist
	}
	return queries, nil
}

// ParseText parses one "Artist - Title" entry per line. Lines without a
// separator become title-only queries. Blank lines and "#" comments are
// skipped.
func ParseText(r io.Reader) ([]models.TrackQuery, error) {
	scanner := bufio.NewScanner(r)

	var queries []models.TrackQuery
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, queryFromDisplay(len(queries), line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedPlaylist, err)
	}

	if len(queries) == 0 {
		return nil, shared.ErrEmptyPlaylist
	}
	return queries, nil
}

// queryFromDisplay splits a display name on the first " - " separator. The
// artist side comes first by playlist convention.
func queryFromDisplay(index int, display string) models.TrackQuery {
	display = strings.TrimSpace(display)

	artist, title, found := strings.Cut(display, " - ")
	if !found {
		return models.TrackQuery{Index: index, Title: display, TitleOnly: true}
	}
	return models.TrackQuery{
		Index:  index,
		Artist: strings.TrimSpace(artist),
		Title:  strings.TrimSpace(title),
	}
}
