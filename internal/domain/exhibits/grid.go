package exhibits

import (
	"time"
)

// Grid is a container record grouping grid items into a column layout.
type Grid struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	UUID string `gorm:"column:uuid;type:uuid;uniqueIndex;not null" json:"uuid"`

	IsMemberOfExhibit string `gorm:"column:is_member_of_exhibit;type:uuid;index;not null" json:"is_member_of_exhibit"`

	Order   int `gorm:"column:order;not null;default:0" json:"order"`
	Columns int `gorm:"not null;default:3" json:"columns"`

	Title  string `json:"title,omitempty"`
	Text   string `gorm:"type:text" json:"text,omitempty"`
	Styles string `gorm:"type:text;default:'{}'" json:"styles"`

	IsPublished int    `gorm:"not null;default:0" json:"is_published"`
	IsLocked    int    `gorm:"not null;default:0" json:"is_locked"`
	LockedBy    string `gorm:"column:locked_by_user" json:"locked_by_user,omitempty"`
	IsDeleted   int    `gorm:"not null;default:0;index" json:"is_deleted"`

	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Grid) TableName() string { return "grids" }
