package exhibits

import "sort"

// Entity kind names used in routes, trash dispatch, and lock requests.
const (
	KindExhibit  = "exhibit"
	KindHeading  = "heading"
	KindItem     = "item"
	KindGrid     = "grid"
	KindGridItem = "grid_item"
)

var kindTables = map[string]string{
	KindExhibit:  Exhibit{}.TableName(),
	KindHeading:  Heading{}.TableName(),
	KindItem:     Item{}.TableName(),
	KindGrid:     Grid{}.TableName(),
	KindGridItem: GridItem{}.TableName(),
}

// TableFor maps an entity kind to its table name.
func TableFor(kind string) (string, bool) {
	table, ok := kindTables[kind]
	return table, ok
}

// ContentEntry is one record in an exhibit's merged content flow.
type ContentEntry struct {
	Kind   string `json:"kind"`
	Order  int    `json:"order"`
	Record any    `json:"record"`
}

// MergeContent interleaves items and headings into a single flow sorted by
// their order values. Order is not required to be contiguous; the sort is
// stable so equal orders keep insertion order (items before headings).
func MergeContent(items []Item, headings []Heading) []ContentEntry {
	entries := make([]ContentEntry, 0, len(items)+len(headings))
	for i := range items {
		entries = append(entries, ContentEntry{Kind: KindItem, Order: items[i].Order, Record: items[i]})
	}
	for i := range headings {
		entries = append(entries, ContentEntry{Kind: KindHeading, Order: headings[i].Order, Record: headings[i]})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Order < entries[b].Order
	})
	return entries
}
