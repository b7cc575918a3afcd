// Package audit derives audit log entries from completed HTTP requests.
// It is transport-agnostic: the server layer adapts its request type into a
// RequestInfo, and everything here is a pure derivation over that struct.
package audit

import (
	"strconv"
	"strings"

	"murmur/internal/models"
)

// RequestInfo is the typed snapshot of a completed request that the audit
// recorder consumes. ClientIP is expected to already prefer the first
// X-Forwarded-For hop over the raw socket address.
type RequestInfo struct {
	ActorID       *uint
	ActorUsername string
	Method        string
	Path          string
	StatusCode    int
	ClientIP      string
	UserAgent     string
	RequestBody   []byte
	ErrorMessage  string
}

// DeriveEntry builds an audit log entry from a request snapshot. It returns
// false when neither an action nor a resource type can be derived; such
// requests produce no audit entry.
func DeriveEntry(info RequestInfo) (*models.AuditLog, bool) {
	action := deriveAction(info.Method, info.Path)
	resourceType := deriveResourceType(info.Path)
	if action == "" || resourceType == "" {
		return nil, false
	}

	entry := &models.AuditLog{
		UserID:       info.ActorID,
		Username:     info.ActorUsername,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   deriveResourceID(info.Path, resourceType),
		Method:       info.Method,
		Path:         info.Path,
		StatusCode:   info.StatusCode,
		ClientIP:     info.ClientIP,
		UserAgent:    info.UserAgent,
		ErrorMessage: info.ErrorMessage,
	}
	if info.Method != "GET" && len(info.RequestBody) > 0 {
		entry.NewValues = info.RequestBody
	}
	return entry, true
}

// deriveAction maps the HTTP verb to a CRUD action, with auth path segments
// overriding the verb-derived default.
func deriveAction(method, path string) string {
	for _, seg := range splitPath(path) {
		switch seg {
		case "login":
			return models.AuditActionLogin
		case "logout":
			return models.AuditActionLogout
		case "signup", "register":
			return models.AuditActionSignup
		case "refresh", "refresh-token":
			return models.AuditActionRefresh
		}
	}

	switch method {
	case "POST":
		return models.AuditActionCreate
	case "PUT", "PATCH":
		return models.AuditActionUpdate
	case "DELETE":
		return models.AuditActionDelete
	case "GET":
		return models.AuditActionRead
	}
	return ""
}

// deriveResourceType matches path segments against the known resource set.
// Comments are checked before posts so /posts/:id/comments/:id attributes to
// the comment.
func deriveResourceType(path string) string {
	segs := splitPath(path)
	has := func(name string) bool {
		for _, s := range segs {
			if s == name || s == name+"s" {
				return true
			}
		}
		return false
	}

	switch {
	case has("auth") || has("login") || has("logout") || has("signup") || has("register") || has("refresh"):
		return models.AuditResourceAuth
	case has("comment"):
		return models.AuditResourceComment
	case has("post"):
		return models.AuditResourcePost
	case has("user"):
		return models.AuditResourceUser
	}
	return ""
}

// deriveResourceID returns the numeric segment following the resource's own
// path segment, when present.
func deriveResourceID(path, resourceType string) *uint {
	segs := splitPath(path)
	for i, s := range segs {
		if s != resourceType && s != resourceType+"s" {
			continue
		}
		if i+1 >= len(segs) {
			return nil
		}
		id, err := strconv.ParseUint(segs[i+1], 10, 32)
		if err != nil || id == 0 {
			return nil
		}
		v := uint(id)
		return &v
	}
	return nil
}

func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	segs := raw[:0]
	for _, s := range raw {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
