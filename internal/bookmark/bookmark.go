package bookmark

import "strings"

// Separator joins folder names in a breadcrumb.
const Separator = " > "

// Columns is the fixed column order of the tabular output.
var Columns = []string{"title", "link", "directory"}

// Bookmark is one exported entry with its folder breadcrumb.
type Bookmark struct {
	Title     string `json:"title"`
	Link      string `json:"link"`      // href as exported, unvalidated
	Directory string `json:"directory"` // folder path joined with Separator
}

// Row returns the bookmark's fields in Columns order.
func (b Bookmark) Row() []string {
	return []string{b.Title, b.Link, b.Directory}
}

// Breadcrumb joins the folder stack, outermost first. With excludeRoot the
// outermost folder is treated as the implicit root container and dropped, so
// a bookmark sitting directly in the root gets an empty directory.
func Breadcrumb(folders []string, excludeRoot bool) string {
	if excludeRoot && len(folders) > 0 {
		folders = folders[1:]
	}
	return strings.Join(folders, Separator)
}
