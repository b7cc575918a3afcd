package models

import (
	"time"
)

// Comment represents a comment on a post.
//
// ParentID, when set, references another comment on the same post; top-level
// comments have a nil parent. Comments share the post tombstone semantics: a
// deleted comment stays in the table but is excluded from active threads.
type Comment struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	UserID   uint     `gorm:"not null;index" json:"user_id"`
	PostID   uint     `gorm:"not null;index" json:"post_id"`
	ParentID *uint    `gorm:"index" json:"parent_id,omitempty"`
	User     User     `gorm:"foreignKey:UserID" json:"user"`
	Parent   *Comment `gorm:"foreignKey:ParentID" json:"-"`

	IsEdited bool       `gorm:"not null;default:false" json:"is_edited"`
	EditedBy *uint      `json:"edited_by,omitempty"`
	EditedAt *time.Time `json:"edited_at,omitempty"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedBy *uint      `json:"deleted_by,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
