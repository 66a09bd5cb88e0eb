package bookmark

import "testing"

func TestBreadcrumb(t *testing.T) {
	tests := []struct {
		name        string
		folders     []string
		excludeRoot bool
		want        string
	}{
		{"empty stack", nil, false, ""},
		{"empty stack excluding root", nil, true, ""},
		{"single folder", []string{"Work"}, false, "Work"},
		{"only root excluded", []string{"Work"}, true, ""},
		{"nested", []string{"Root", "Work", "Projects"}, false, "Root > Work > Projects"},
		{"nested excluding root", []string{"Root", "Work", "Projects"}, true, "Work > Projects"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Breadcrumb(tt.folders, tt.excludeRoot); got != tt.want {
				t.Errorf("Breadcrumb(%q, %v) = %q, want %q", tt.folders, tt.excludeRoot, got, tt.want)
			}
		})
	}
}

func TestBreadcrumb_DoesNotMutateStack(t *testing.T) {
	folders := []string{"Root", "Work"}
	Breadcrumb(folders, true)
	if len(folders) != 2 || folders[0] != "Root" {
		t.Errorf("expected stack untouched, got %q", folders)
	}
}

func TestBookmark_Row(t *testing.T) {
	b := Bookmark{Title: "Go", Link: "https://go.dev", Directory: "Dev > Lang"}
	row := b.Row()
	if len(row) != len(Columns) {
		t.Fatalf("expected %d fields, got %d", len(Columns), len(row))
	}
	want := []string{"Go", "https://go.dev", "Dev > Lang"}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] (%s): expected %q, got %q", i, Columns[i], want[i], row[i])
		}
	}
}
