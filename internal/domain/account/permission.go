package account

import "github.com/sortwise/sessiond/internal/domain/session"

// Resources and actions checked by the permission enforcer.
const (
	ResourceSessions = "sessions"

	ActionRead = "read"
	ActionKick = "kick"
)

// PermissionEnforcer answers role-based access questions. Subjects are role
// names or account subjects that were granted a role.
type PermissionEnforcer interface {
	Enforce(subject, resource, action string) (bool, error)
}

// Subject is the casbin subject of a single account, for grants that apply
// to one account rather than a role.
func Subject(id session.AccountID) string {
	return "account:" + id.String()
}
