package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/bmexport/internal/bookmark"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Bookmarks

- [Go](https://go.dev)

## Work

- [Tracker](https://example.com/tracker)

### Projects

- [Board **one**](https://example.com/board)

## Reading

Some prose with an inline [Article](https://example.org/a) link.
`
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(input), "links.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []bookmark.Bookmark{
		{Title: "Go", Link: "https://go.dev", Directory: "Bookmarks"},
		{Title: "Tracker", Link: "https://example.com/tracker", Directory: "Bookmarks > Work"},
		{Title: "Board one", Link: "https://example.com/board", Directory: "Bookmarks > Work > Projects"},
		{Title: "Article", Link: "https://example.org/a", Directory: "Bookmarks > Reading"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record[%d]: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestMarkdownParser_ExcludeRoot(t *testing.T) {
	input := "# Root\n\n- [Top](https://top)\n\n## Dev\n\n- [Deep](https://deep)\n"
	p := &MarkdownParser{ExcludeRoot: true}
	got, err := p.Parse(strings.NewReader(input), "links.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Directory != "" {
		t.Errorf("expected empty directory for root-level link, got %q", got[0].Directory)
	}
	if got[1].Directory != "Dev" {
		t.Errorf("expected directory %q, got %q", "Dev", got[1].Directory)
	}
}

func TestMarkdownParser_AutoLink(t *testing.T) {
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader("## Misc\n\n<https://example.net/x>\n"), "auto.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Title != "https://example.net/x" || got[0].Link != "https://example.net/x" {
		t.Errorf("unexpected autolink record %+v", got[0])
	}
	if got[0].Directory != "Misc" {
		t.Errorf("expected directory %q, got %q", "Misc", got[0].Directory)
	}
}

func TestMarkdownParser_NormalizesTitles(t *testing.T) {
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader("- [\u200eDocs\u200b](https://docs)\n"), "t.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Docs" {
		t.Fatalf("expected normalized title %q, got %+v", "Docs", got)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 records for empty input, got %d", len(got))
	}
}
