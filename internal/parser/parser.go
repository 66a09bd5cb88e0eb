package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/bmexport/internal/bookmark"
)

// Parser converts a raw bookmarks document into records in document order.
type Parser interface {
	Parse(r io.Reader, filename string) ([]bookmark.Bookmark, error)
}

// Options tune how folder breadcrumbs are built.
type Options struct {
	// ExcludeRoot drops the outermost folder (the browser's implicit
	// top-level container) from every breadcrumb.
	ExcludeRoot bool
}

// SupportedExtensions lists file extensions this tool can read.
var SupportedExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm":
		return &NetscapeParser{ExcludeRoot: opts.ExcludeRoot}, nil
	case ".md", ".markdown":
		return &MarkdownParser{ExcludeRoot: opts.ExcludeRoot}, nil
	case ".csv":
		return &CSVParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
