package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/bmexport/internal/bookmark"
)

const chromeExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<!-- This is an automatically generated file.
     It will be read and overwritten.
     DO NOT EDIT! -->
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3 ADD_DATE="1700000000" LAST_MODIFIED="1700000001" PERSONAL_TOOLBAR_FOLDER="true">Bookmarks bar</H3>
    <DL><p>
        <DT><A HREF="https://go.dev/" ADD_DATE="1700000002">The Go Programming Language</A>
        <DT><H3 ADD_DATE="1700000003">Work</H3>
        <DL><p>
            <DT><A HREF="https://example.com/jira">Jira &amp; Confluence</A>
            <DT><H3>Projects</H3>
            <DL><p>
                <DT><A HREF="https://example.com/p">Pro&#8203;ject</A>
            </DL><p>
        </DL><p>
        <DT><A HREF="https://news.ycombinator.com/">Hacker News</A>
    </DL><p>
    <DT><H3>Other bookmarks</H3>
    <DL><p>
        <DT><A HREF="https://example.org/">Example</A>
    </DL><p>
</DL><p>
`

func parseNetscape(t *testing.T, input string, excludeRoot bool) []bookmark.Bookmark {
	t.Helper()
	p := &NetscapeParser{ExcludeRoot: excludeRoot}
	records, err := p.Parse(strings.NewReader(input), "bookmarks.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return records
}

func assertRecords(t *testing.T, got, want []bookmark.Bookmark) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record[%d]: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestNetscapeParser_ChromeExport(t *testing.T) {
	got := parseNetscape(t, chromeExport, false)
	assertRecords(t, got, []bookmark.Bookmark{
		{Title: "The Go Programming Language", Link: "https://go.dev/", Directory: "Bookmarks bar"},
		{Title: "Jira & Confluence", Link: "https://example.com/jira", Directory: "Bookmarks bar > Work"},
		{Title: "Project", Link: "https://example.com/p", Directory: "Bookmarks bar > Work > Projects"},
		{Title: "Hacker News", Link: "https://news.ycombinator.com/", Directory: "Bookmarks bar"},
		{Title: "Example", Link: "https://example.org/", Directory: "Other bookmarks"},
	})
}

func TestNetscapeParser_ChromeExportExcludeRoot(t *testing.T) {
	got := parseNetscape(t, chromeExport, true)
	want := []string{"", "Work", "Work > Projects", "", ""}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Directory != w {
			t.Errorf("record[%d] %q: expected directory %q, got %q", i, got[i].Title, w, got[i].Directory)
		}
	}
}

func TestNetscapeParser_SingleRootFolder(t *testing.T) {
	got := parseNetscape(t, `<H3>Work</H3><DL><DT><A HREF="http://x">Title</A></DL>`, true)
	assertRecords(t, got, []bookmark.Bookmark{
		{Title: "Title", Link: "http://x", Directory: ""},
	})
}

func TestNetscapeParser_ZeroWidthTitleNested(t *testing.T) {
	input := "<DL><DT><H3>Root</H3><DL><DT><H3>Work</H3><DL><DT><H3>Projects</H3><DL>" +
		"<DT><A HREF=\"https://example.com\">Pro\u200bject</A>" +
		"</DL></DL></DL></DL>"
	got := parseNetscape(t, input, true)
	assertRecords(t, got, []bookmark.Bookmark{
		{Title: "Project", Link: "https://example.com", Directory: "Work > Projects"},
	})
}

func TestNetscapeParser_MissingHref(t *testing.T) {
	got := parseNetscape(t, `<H3>Reading</H3><DL><DT><A ADD_DATE="1">NoLink</A></DL>`, false)
	assertRecords(t, got, []bookmark.Bookmark{
		{Title: "NoLink", Link: "", Directory: "Reading"},
	})
}

func TestNetscapeParser_NoBookmarks(t *testing.T) {
	for _, input := range []string{"", "<H1>Bookmarks</H1><DL><p></DL><p>", "plain text only"} {
		got := parseNetscape(t, input, false)
		if len(got) != 0 {
			t.Errorf("input %q: expected 0 records, got %d", input, len(got))
		}
	}
}

func TestNetscapeParser_BlankTitlesAreSkipped(t *testing.T) {
	input := `<DL>
<DT><A HREF="https://a">   </A>
<DT><A HREF="https://b"></A>
<DT><A HREF="https://c">Kept</A>
</DL>`
	got := parseNetscape(t, input, false)
	assertRecords(t, got, []bookmark.Bookmark{
		{Title: "Kept", Link: "https://c"},
	})
}

func TestNetscapeParser_RecordCountMatchesTitledAnchors(t *testing.T) {
	got := parseNetscape(t, chromeExport, false)
	anchors := strings.Count(strings.ToUpper(chromeExport), "<A HREF")
	if len(got) != anchors {
		t.Errorf("expected one record per titled anchor (%d), got %d", anchors, len(got))
	}
}

func TestNetscapeParser_OverClosingIsIgnored(t *testing.T) {
	input := `</DL></DL><H3>Music</H3><DL><A HREF="https://m">Radio</A></DL></DL></DL><A HREF="https://top">Top</A>`
	got := parseNetscape(t, input, false)
	assertRecords(t, got, []bookmark.Bookmark{
		{Title: "Radio", Link: "https://m", Directory: "Music"},
		{Title: "Top", Link: "https://top", Directory: ""},
	})
}

func TestNetscapeParser_UnclosedFolderKeepsNesting(t *testing.T) {
	// No </DL> at all: every later bookmark stays inside the open folders.
	input := `<H3>A</H3><DL><H3>B</H3><DL><A HREF="1">One</A><A HREF="2">Two</A>`
	got := parseNetscape(t, input, false)
	for _, r := range got {
		if r.Directory != "A > B" {
			t.Errorf("%q: expected directory %q, got %q", r.Title, "A > B", r.Directory)
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func TestNetscapeParser_TextOutsideTagsIsIgnored(t *testing.T) {
	input := `<DL><DT><A HREF="https://a">Alpha</A> trailing words
<DD>A description of alpha
<DT><H3>Folder</H3> stray text
</DL>`
	got := parseNetscape(t, input, false)
	assertRecords(t, got, []bookmark.Bookmark{
		{Title: "Alpha", Link: "https://a"},
	})
}

func TestNetscapeParser_NestedMarkupInsideAnchor(t *testing.T) {
	// Only text directly inside <A> is a title; <b> switches the context.
	got := parseNetscape(t, `<A HREF="https://a"><b>Bold</b></A>`, false)
	if len(got) != 0 {
		t.Errorf("expected no records, got %+v", got)
	}
}

func TestNetscapeParser_LowercaseAndSelfClosing(t *testing.T) {
	input := `<dl><dt><h3>Lower</h3><dl><dt><a href="https://l">lower case</a><br/><a href="https://x"/></dl></dl>`
	got := parseNetscape(t, input, false)
	assertRecords(t, got, []bookmark.Bookmark{
		{Title: "lower case", Link: "https://l", Directory: "Lower"},
	})
}

func TestNetscapeParser_FolderNameIsTrimmed(t *testing.T) {
	got := parseNetscape(t, "<H3>\n   Spaced   Out \n</H3><DL><A HREF=\"u\">t</A></DL>", false)
	if len(got) != 1 || got[0].Directory != "Spaced   Out" {
		t.Fatalf("expected directory %q, got %+v", "Spaced   Out", got)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestNetscapeParser_ReadErrorIsReturned(t *testing.T) {
	boom := errors.New("disk on fire")
	p := &NetscapeParser{}
	_, err := p.Parse(failingReader{err: boom}, "broken.html")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken.html") {
		t.Errorf("expected filename in error, got %q", err.Error())
	}
}
