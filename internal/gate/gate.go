// Package gate is the authorization boundary consulted before every
// mutating operation. A deny must short-circuit the request; the underlying
// storage mutation never runs.
package gate

import (
	"context"

	"exhibits-dashboard/internal/domain/users"
)

// Permission names checked against a role's capabilities.
const (
	PermCreate      = "create"
	PermUpdate      = "update"
	PermDelete      = "delete"
	PermPublish     = "publish"
	PermLock        = "lock"
	PermRestore     = "restore"
	PermPurge       = "purge"
	PermForceUnlock = "force_unlock"
)

// Request describes one permission check: who is acting, what they want to
// do, and which record scope they are touching.
type Request struct {
	UserID      uint
	Role        string
	Permissions []string
	RecordType  string
	ParentID    string
	ChildID     string
}

// Gate yields allow/deny per permission set and record scope.
type Gate interface {
	CheckPermission(ctx context.Context, req Request) bool
}

// CapabilitiesFor returns the permissions a role grants.
func CapabilitiesFor(role string) []string {
	switch role {
	case users.RoleAdmin:
		return []string{
			PermCreate, PermUpdate, PermDelete, PermPublish,
			PermLock, PermRestore, PermPurge, PermForceUnlock,
		}
	case users.RoleEditor:
		return []string{
			PermCreate, PermUpdate, PermDelete, PermPublish,
			PermLock, PermRestore,
		}
	default:
		return []string{}
	}
}

// RoleGate grants permissions from the static role capability table.
type RoleGate struct{}

func (RoleGate) CheckPermission(_ context.Context, req Request) bool {
	if len(req.Permissions) == 0 {
		return false
	}
	granted := make(map[string]bool)
	for _, p := range CapabilitiesFor(req.Role) {
		granted[p] = true
	}
	for _, p := range req.Permissions {
		if !granted[p] {
			return false
		}
	}
	return true
}
