// Package policy decides who may read or change a task. It performs no I/O.
package policy

import "github.com/oksasatya/task-tracker-api/internal/domain/entity"

type Action string

const (
	Read   Action = "read"
	Update Action = "update"
	Delete Action = "delete"
)

// Policy is the role/ownership access decision.
//
// AdminMayActOnAdminOwned=false is the stricter variant where an admin may not
// update or delete a task owned by another admin. In that mode the caller must
// pass the owner's current role in task.OwnerRole, not the value recorded at
// creation.
type Policy struct {
	AdminMayActOnAdminOwned bool
}

// Default is the unrestricted policy.
func Default() Policy {
	return Policy{AdminMayActOnAdminOwned: true}
}

func (p Policy) CanAct(user entity.User, task entity.Task, action Action) bool {
	owns := task.Owner == user.OwnerKey()
	switch action {
	case Read:
		return owns || user.IsAdmin()
	case Update, Delete:
		if owns {
			return true
		}
		if !user.IsAdmin() {
			return false
		}
		if !p.AdminMayActOnAdminOwned && task.OwnerRole == entity.RoleAdmin {
			return false
		}
		return true
	}
	return false
}
