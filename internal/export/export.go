// Package export writes bookmark records in tabular form.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/bmexport/internal/bookmark"
)

// Options control the CSV layout.
type Options struct {
	// AlwaysHeader writes the header row even when there are no records.
	// Off by default: an empty export is an empty file.
	AlwaysHeader bool
	// CRLF terminates rows with \r\n instead of \n.
	CRLF bool
}

// WriteCSV writes records as title,link,directory rows.
func WriteCSV(w io.Writer, records []bookmark.Bookmark, opts Options) error {
	if len(records) == 0 && !opts.AlwaysHeader {
		return nil
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = opts.CRLF

	if err := cw.Write(bookmark.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, b := range records {
		if err := cw.Write(b.Row()); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates (or truncates) path and writes records to it as CSV.
// The file is created even when there is nothing to write.
func WriteFile(path string, records []bookmark.Bookmark, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, records, opts); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes records as a JSON array; an empty set is [].
func WriteJSON(w io.Writer, records []bookmark.Bookmark) error {
	if records == nil {
		records = []bookmark.Bookmark{}
	}
	return json.NewEncoder(w).Encode(records)
}
