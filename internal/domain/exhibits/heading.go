package exhibits

import (
	"time"
)

// Heading is a section marker inside an exhibit. Headings share the content
// flow with items: readers merge both kinds and sort by Order.
type Heading struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	UUID string `gorm:"column:uuid;type:uuid;uniqueIndex;not null" json:"uuid"`

	IsMemberOfExhibit string `gorm:"column:is_member_of_exhibit;type:uuid;index;not null" json:"is_member_of_exhibit"`

	Text   string `gorm:"not null" json:"text"`
	Order  int    `gorm:"column:order;not null;default:0" json:"order"`
	Styles string `gorm:"type:text;default:'{}'" json:"styles"`

	IsVisible int `gorm:"not null;default:1" json:"is_visible"`
	IsAnchor  int `gorm:"not null;default:0" json:"is_anchor"`

	IsPublished int    `gorm:"not null;default:0" json:"is_published"`
	IsLocked    int    `gorm:"not null;default:0" json:"is_locked"`
	LockedBy    string `gorm:"column:locked_by_user" json:"locked_by_user,omitempty"`
	IsDeleted   int    `gorm:"not null;default:0;index" json:"is_deleted"`

	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Heading) TableName() string { return "headings" }
