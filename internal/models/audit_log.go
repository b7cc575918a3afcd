package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions. Verb-derived actions cover plain CRUD; the auth actions are
// derived from the request path instead of the HTTP method.
const (
	AuditActionCreate  = "create"
	AuditActionRead    = "read"
	AuditActionUpdate  = "update"
	AuditActionDelete  = "delete"
	AuditActionLogin   = "login"
	AuditActionLogout  = "logout"
	AuditActionSignup  = "signup"
	AuditActionRefresh = "refresh_token"
)

// Audit resource types.
const (
	AuditResourcePost    = "post"
	AuditResourceComment = "comment"
	AuditResourceUser    = "user"
	AuditResourceAuth    = "auth"
)

// AuditLog is an immutable record of a mutating or authentication-related
// request. Rows are append-only; nothing updates them and only the
// age-based retention purge deletes them.
type AuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       *uint     `gorm:"index" json:"user_id,omitempty"`
	Username     string    `gorm:"size:30" json:"username,omitempty"`
	Action       string    `gorm:"size:32;not null;index" json:"action"`
	ResourceType string    `gorm:"size:32;not null;index" json:"resource_type"`
	ResourceID   *uint     `gorm:"index" json:"resource_id,omitempty"`
	Method       string    `gorm:"size:8;not null" json:"method"`
	Path         string    `gorm:"size:512;not null" json:"path"`
	StatusCode   int       `gorm:"not null" json:"status_code"`
	ClientIP     string    `gorm:"size:64" json:"client_ip"`
	UserAgent    string    `gorm:"size:512" json:"user_agent"`
	NewValues    []byte    `gorm:"type:jsonb" json:"new_values,omitempty"`
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns the entry ID when the caller left it unset.
func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Succeeded reports whether the recorded request completed with a 2xx status.
func (a *AuditLog) Succeeded() bool {
	return a.StatusCode >= 200 && a.StatusCode < 300
}

// AuditLogFilter narrows audit log queries. Zero values mean "no constraint".
type AuditLogFilter struct {
	UserID       *uint
	Action       string
	ResourceType string
	ResourceID   *uint
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// AuditStats aggregates entry counts grouped by action and by resource type.
type AuditStats struct {
	Total          int64            `json:"total"`
	ByAction       map[string]int64 `json:"by_action"`
	ByResourceType map[string]int64 `json:"by_resource_type"`
}
