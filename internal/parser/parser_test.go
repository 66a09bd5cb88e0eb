package parser

import "testing"

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"bookmarks.html", "netscape"},
		{"Bookmarks.HTM", "netscape"},
		{"links.md", "markdown"},
		{"links.markdown", "markdown"},
		{"all_bookmarks.csv", "csv"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename, Options{ExcludeRoot: true})
		if err != nil {
			t.Fatalf("ForFile(%q): unexpected error: %v", tt.filename, err)
		}
		var got string
		switch v := p.(type) {
		case *NetscapeParser:
			got = "netscape"
			if !v.ExcludeRoot {
				t.Errorf("ForFile(%q): expected ExcludeRoot to be passed through", tt.filename)
			}
		case *MarkdownParser:
			got = "markdown"
			if !v.ExcludeRoot {
				t.Errorf("ForFile(%q): expected ExcludeRoot to be passed through", tt.filename)
			}
		case *CSVParser:
			got = "csv"
		}
		if got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	for _, name := range []string{"export.json", "notes.pdf", "noext"} {
		if _, err := ForFile(name, Options{}); err == nil {
			t.Errorf("ForFile(%q): expected error", name)
		}
		if IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q): expected false", name)
		}
	}
}
