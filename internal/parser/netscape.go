package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/bmexport/internal/bookmark"
	"golang.org/x/net/html"
)

// Tags the traversal reacts to. The tokenizer lowercases tag names.
const (
	tagFolder   = "h3"
	tagLink     = "a"
	tagFolderDL = "dl"
)

// NetscapeParser handles browser bookmark exports in the Netscape
// bookmark-file format: nested <DL> lists, <H3> folder headings and
// <A HREF> entries. Every other tag is structurally ignored.
type NetscapeParser struct {
	ExcludeRoot bool
}

// Parse streams the document token by token. Malformed markup never fails
// the parse; only read errors from r are returned.
func (p *NetscapeParser) Parse(r io.Reader, filename string) ([]bookmark.Bookmark, error) {
	z := html.NewTokenizer(r)
	t := &traversal{excludeRoot: p.ExcludeRoot}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("read %s: %w", filename, err)
			}
			return t.records, nil

		case html.StartTagToken:
			name, href := tagAndHref(z)
			t.open(name, href)

		case html.SelfClosingTagToken:
			name, href := tagAndHref(z)
			t.open(name, href)
			t.close(name)

		case html.EndTagToken:
			name, _ := z.TagName()
			t.close(string(name))

		case html.TextToken:
			t.text(string(z.Text()))
		}
	}
}

func tagAndHref(z *html.Tokenizer) (string, string) {
	name, hasAttr := z.TagName()
	var href string
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "href" {
			href = string(val)
		}
	}
	return string(name), href
}

// traversal is the mutable state of one parse. It is owned by a single
// Parse call and discarded afterwards.
type traversal struct {
	excludeRoot bool

	folders []string // folder names, outermost first; len == nesting depth
	current string   // tag whose text is being read, "" between tags
	link    string   // href of the most recent <a>

	records []bookmark.Bookmark
}

func (t *traversal) open(tag, href string) {
	t.current = tag
	if tag == tagLink {
		t.link = href
	}
}

func (t *traversal) close(tag string) {
	// Closes are counted, not matched against headings; an extra </DL> is a no-op.
	if tag == tagFolderDL && len(t.folders) > 0 {
		t.folders = t.folders[:len(t.folders)-1]
	}
	t.current = ""
}

func (t *traversal) text(data string) {
	data = strings.TrimSpace(data)
	if data == "" {
		return
	}

	switch t.current {
	case tagFolder:
		t.folders = append(t.folders, data)
	case tagLink:
		t.records = append(t.records, bookmark.Bookmark{
			Title:     Normalize(data),
			Link:      t.link,
			Directory: bookmark.Breadcrumb(t.folders, t.excludeRoot),
		})
	}
}
