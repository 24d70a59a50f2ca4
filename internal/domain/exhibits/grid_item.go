package exhibits

import (
	"time"
)

// GridItem is a content record scoped to both an exhibit and a grid within
// that exhibit. It carries its own publish state independent of the grid.
type GridItem struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	UUID string `gorm:"column:uuid;type:uuid;uniqueIndex;not null" json:"uuid"`

	IsMemberOfExhibit string `gorm:"column:is_member_of_exhibit;type:uuid;index;not null" json:"is_member_of_exhibit"`
	IsMemberOfGrid    string `gorm:"column:is_member_of_grid;type:uuid;index;not null" json:"is_member_of_grid"`

	Order int `gorm:"column:order;not null;default:0" json:"order"`

	ItemType  string `gorm:"column:item_type" json:"item_type,omitempty"`
	Media     string `json:"media,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Text      string `gorm:"type:text" json:"text,omitempty"`
	Caption   string `json:"caption,omitempty"`
	Styles    string `gorm:"type:text;default:'{}'" json:"styles"`

	IsPublished int    `gorm:"not null;default:0" json:"is_published"`
	IsLocked    int    `gorm:"not null;default:0" json:"is_locked"`
	LockedBy    string `gorm:"column:locked_by_user" json:"locked_by_user,omitempty"`
	IsDeleted   int    `gorm:"not null;default:0;index" json:"is_deleted"`

	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GridItem) TableName() string { return "grid_items" }
