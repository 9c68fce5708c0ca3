package authz

import "delay-tracker/internal/entities"

// Permission codes.
const (
	OrdersView = "orders:view"
	ScopeAll   = "scope:all"
)

// Role -> permission set. Fixed at startup; roles come from the users table.
var rolePermissions = map[string][]string{
	"admin":   {OrdersView, ScopeAll},
	"manager": {OrdersView},
	"staff":   {OrdersView},
}

// PermissionsForRole returns the permission map for a role. Unknown roles
// get no permissions.
func PermissionsForRole(role string) map[string]bool {
	perms := make(map[string]bool)
	for _, code := range rolePermissions[role] {
		perms[code] = true
	}
	return perms
}

// Context carries the acting user and their resolved permissions through an
// authorization decision.
type Context struct {
	Actor       *entities.User
	Permissions map[string]bool
}

func (c Context) HasPermission(code string) bool {
	return c.Permissions[code]
}

// BranchScope derives the branch boundary for the actor: nil means the
// caller may see all branches. The scope is never client-supplied.
func (c Context) BranchScope() *int64 {
	if c.HasPermission(ScopeAll) {
		return nil
	}
	if c.Actor != nil && c.Actor.BranchID.Valid {
		id := c.Actor.BranchID.Int64
		return &id
	}
	return nil
}
