package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/bmexport/internal/bookmark"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown bookmark lists using goldmark. Headings
// are folders nested by level; every link is a bookmark.
type MarkdownParser struct {
	ExcludeRoot bool
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]bookmark.Bookmark, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	type stackEntry struct {
		name  string
		level int
	}
	var stack []stackEntry
	var records []bookmark.Bookmark

	folders := func() []string {
		names := make([]string, len(stack))
		for i, e := range stack {
			names[i] = e.name
		}
		return names
	}

	emit := func(title, link string) {
		records = append(records, bookmark.Bookmark{
			Title:     Normalize(title),
			Link:      link,
			Directory: bookmark.Breadcrumb(folders(), p.ExcludeRoot),
		})
	}

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			name := strings.TrimSpace(inlineText(node, src))
			if name == "" {
				return ast.WalkSkipChildren, nil
			}
			// Pop stack until the top is a shallower heading.
			for len(stack) > 0 && stack[len(stack)-1].level >= node.Level {
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, stackEntry{name: name, level: node.Level})
			return ast.WalkSkipChildren, nil

		case *ast.Link:
			title := strings.TrimSpace(inlineText(node, src))
			if title == "" {
				return ast.WalkSkipChildren, nil
			}
			emit(title, string(node.Destination))
			return ast.WalkSkipChildren, nil

		case *ast.AutoLink:
			url := string(node.URL(src))
			emit(url, url)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// inlineText gets the text content of a goldmark inline subtree.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}
