package store

import (
	"time"

	"exhibits-dashboard/internal/domain/exhibits"

	"gorm.io/gorm"
)

// Set bundles one repository per entity kind, all sharing a connection and
// query timeout.
type Set struct {
	Exhibits  *Repository[exhibits.Exhibit]
	Headings  *Repository[exhibits.Heading]
	Items     *Repository[exhibits.Item]
	Grids     *Repository[exhibits.Grid]
	GridItems *Repository[exhibits.GridItem]

	// GridItemsByGrid addresses grid items by their owning grid instead of
	// their exhibit, for the grid-nested routes.
	GridItemsByGrid *Repository[exhibits.GridItem]
}

// NewSet builds the repositories. The exhibit table scopes by its own uuid;
// every child table scopes by its owning exhibit.
func NewSet(db *gorm.DB, timeout time.Duration) *Set {
	return &Set{
		Exhibits:  NewRepository[exhibits.Exhibit](db, exhibits.Exhibit{}.TableName(), "uuid", timeout),
		Headings:  NewRepository[exhibits.Heading](db, exhibits.Heading{}.TableName(), "is_member_of_exhibit", timeout),
		Items:     NewRepository[exhibits.Item](db, exhibits.Item{}.TableName(), "is_member_of_exhibit", timeout),
		Grids:     NewRepository[exhibits.Grid](db, exhibits.Grid{}.TableName(), "is_member_of_exhibit", timeout),
		GridItems: NewRepository[exhibits.GridItem](db, exhibits.GridItem{}.TableName(), "is_member_of_exhibit", timeout),

		GridItemsByGrid: NewRepository[exhibits.GridItem](db, exhibits.GridItem{}.TableName(), "is_member_of_grid", timeout),
	}
}
