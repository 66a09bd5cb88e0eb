package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dgallion1/bmexport/internal/bookmark"
	"github.com/dgallion1/bmexport/internal/config"
	"github.com/dgallion1/bmexport/internal/export"
	"github.com/dgallion1/bmexport/internal/parser"
)

// Outcome describes how a directory conversion ended.
type Outcome string

const (
	OutcomeWritten     Outcome = "written"
	OutcomeDirNotFound Outcome = "dir_not_found"
	OutcomeNoDocuments Outcome = "no_documents"
)

// Result summarizes a directory conversion. Only OutcomeWritten produces
// an output file.
type Result struct {
	Outcome   Outcome
	Dir       string
	Files     []string
	Bookmarks []bookmark.Bookmark
	Output    string
}

// Converter turns bookmark documents into CSV. Each document is parsed by
// its own traversal; nothing is shared between documents.
type Converter struct {
	parseOpts  parser.Options
	csvOpts    export.Options
	extensions []string
	log        *slog.Logger

	// OnDocument, if set, is called before each document of a batch is parsed.
	OnDocument func(path string)
}

// NewConverter builds a converter from the loaded configuration.
func NewConverter(cfg config.Config, log *slog.Logger) *Converter {
	return &Converter{
		parseOpts: parser.Options{ExcludeRoot: cfg.ExcludeRoot},
		csvOpts: export.Options{
			AlwaysHeader: cfg.AlwaysHeader,
			CRLF:         cfg.CRLF,
		},
		extensions: cfg.BatchExtensions,
		log:        log,
	}
}

// WithExcludeRoot returns a copy of c with root exclusion set to v.
func (c *Converter) WithExcludeRoot(v bool) *Converter {
	cp := *c
	cp.parseOpts.ExcludeRoot = v
	return &cp
}

// CSVOptions returns the writer options the converter uses.
func (c *Converter) CSVOptions() export.Options {
	return c.csvOpts
}

// ParseFile reads one document and returns its bookmarks. A missing or
// unreadable file is an error.
func (c *Converter) ParseFile(path string) ([]bookmark.Bookmark, error) {
	p, err := parser.ForFile(path, c.parseOpts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return p.Parse(f, filepath.Base(path))
}

// ParseReader parses one document already in memory or in flight, choosing
// the format from filename.
func (c *Converter) ParseReader(r io.Reader, filename string) ([]bookmark.Bookmark, error) {
	p, err := parser.ForFile(filename, c.parseOpts)
	if err != nil {
		return nil, err
	}
	return p.Parse(r, filename)
}

// ConvertFile parses in and writes its bookmarks to out.
func (c *Converter) ConvertFile(ctx context.Context, in, out string) ([]bookmark.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := c.log.With("file", in)

	records, err := c.ParseFile(in)
	if err != nil {
		return nil, err
	}
	log.Info("parsed bookmarks", "count", len(records))

	if err := export.WriteFile(out, records, c.csvOpts); err != nil {
		return nil, err
	}
	log.Info("saved", "output", out)
	return records, nil
}

// Discover lists the documents in dir (not recursive) whose extension is
// one of the configured batch extensions, in lexical order.
func (c *Converter) Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if slices.Contains(c.extensions, ext) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// ConvertDir parses every discovered document in dir and writes the
// concatenated bookmarks to out. A missing directory or one without
// documents is reported through Result.Outcome, not as an error, and
// writes nothing. A document that cannot be read aborts the batch.
func (c *Converter) ConvertDir(ctx context.Context, dir, out string) (*Result, error) {
	log := c.log.With("dir", dir)
	res := &Result{Dir: dir}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Warn("directory not found")
		res.Outcome = OutcomeDirNotFound
		return res, nil
	}

	files, err := c.Discover(dir)
	if err != nil {
		return nil, err
	}
	// An earlier run's output may sit in dir when .csv documents are merged.
	files = slices.DeleteFunc(files, func(path string) bool { return samePath(path, out) })
	if len(files) == 0 {
		log.Warn("no documents found", "extensions", c.extensions)
		res.Outcome = OutcomeNoDocuments
		return res, nil
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.OnDocument != nil {
			c.OnDocument(path)
		}
		records, err := c.ParseFile(path)
		if err != nil {
			return nil, err
		}
		log.Info("processed document", "file", filepath.Base(path), "count", len(records))
		res.Files = append(res.Files, path)
		res.Bookmarks = append(res.Bookmarks, records...)
	}

	if err := export.WriteFile(out, res.Bookmarks, c.csvOpts); err != nil {
		return nil, err
	}
	res.Outcome = OutcomeWritten
	res.Output = out
	log.Info("batch complete", "files", len(res.Files), "bookmarks", len(res.Bookmarks), "output", out)
	return res, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
