package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/bmexport/internal/bookmark"
)

// CSVParser re-imports a table previously written by the exporter, so batch
// runs can merge earlier results. A header naming the columns maps them by
// name; otherwise they are read positionally as title, link, directory.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) ([]bookmark.Bookmark, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("parse csv %s: %w", filename, err)
		}
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := map[string]int{"title": 0, "link": 1, "directory": 2}
	if header, ok := headerIndex(rows[0]); ok {
		idx = header
		rows = rows[1:]
	}

	records := make([]bookmark.Bookmark, 0, len(rows))
	for _, row := range rows {
		records = append(records, bookmark.Bookmark{
			Title:     Normalize(field(row, idx["title"])),
			Link:      field(row, idx["link"]),
			Directory: field(row, idx["directory"]),
		})
	}
	return records, nil
}

// headerIndex reports whether row is a header carrying at least the title
// column, and where each known column sits.
func headerIndex(row []string) (map[string]int, bool) {
	idx := map[string]int{"title": -1, "link": -1, "directory": -1}
	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		if _, known := idx[name]; known {
			idx[name] = i
		}
	}
	return idx, idx["title"] >= 0
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
