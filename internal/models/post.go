package models

import (
	"time"
)

// Post represents a timeline post.
//
// Deletion is a soft delete: the row is kept as a tombstone with is_deleted
// set and deleted_by/deleted_at recording who removed it and when. Edits are
// tracked via is_edited/edited_by/edited_at, which always reflect the most
// recent editor.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:300;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`

	IsEdited bool       `gorm:"not null;default:false" json:"is_edited"`
	EditedBy *uint      `json:"edited_by,omitempty"`
	EditedAt *time.Time `json:"edited_at,omitempty"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedBy *uint      `json:"deleted_by,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// CommentsCount is read-only; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
