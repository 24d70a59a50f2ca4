package exhibits

import (
	"time"
)

// Exhibit is the top-level container for one digital exhibition. The
// auto-increment ID stays internal; the UUID is the external identifier and
// never changes for the life of the record, including through trash/restore.
type Exhibit struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	UUID string `gorm:"column:uuid;type:uuid;uniqueIndex;not null" json:"uuid"`

	Title       string `gorm:"not null" json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Styles is an opaque styling blob stored as canonical serialized JSON.
	Styles string `gorm:"type:text;default:'{}'" json:"styles"`

	HeroImage      string `gorm:"column:hero_image" json:"hero_image,omitempty"`
	ThumbnailImage string `gorm:"column:thumbnail_image" json:"thumbnail_image,omitempty"`

	IsPublished int    `gorm:"not null;default:0" json:"is_published"`
	IsLocked    int    `gorm:"not null;default:0" json:"is_locked"`
	LockedBy    string `gorm:"column:locked_by_user" json:"locked_by_user,omitempty"`
	IsDeleted   int    `gorm:"not null;default:0;index" json:"is_deleted"`

	Owner     string    `json:"owner,omitempty"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Exhibit) TableName() string { return "exhibits" }
