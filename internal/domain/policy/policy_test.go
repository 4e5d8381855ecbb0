package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
)

var (
	ann   = entity.User{ID: 1, Name: "Ann", Email: "Ann@X.com", Role: entity.RoleIntern}
	bob   = entity.User{ID: 2, Name: "Bob", Email: "bob@x.com", Role: entity.RoleIntern}
	root  = entity.User{ID: 3, Name: "Root", Email: "root@x.com", Role: entity.RoleAdmin}
	chief = entity.User{ID: 4, Name: "Chief", Email: "chief@x.com", Role: entity.RoleAdmin}
)

func TestCanAct_Default(t *testing.T) {
	annTask := entity.Task{ID: 10, Owner: "ann@x.com", OwnerRole: entity.RoleIntern}
	chiefTask := entity.Task{ID: 11, Owner: "chief@x.com", OwnerRole: entity.RoleAdmin}
	p := Default()

	tests := []struct {
		name   string
		user   entity.User
		task   entity.Task
		action Action
		want   bool
	}{
		{"owner reads", ann, annTask, Read, true},
		{"owner updates", ann, annTask, Update, true},
		{"owner deletes", ann, annTask, Delete, true},
		{"other intern reads", bob, annTask, Read, false},
		{"other intern updates", bob, annTask, Update, false},
		{"other intern deletes", bob, annTask, Delete, false},
		{"admin reads intern task", root, annTask, Read, true},
		{"admin updates intern task", root, annTask, Update, true},
		{"admin deletes admin task", root, chiefTask, Delete, true},
		{"unknown action", ann, annTask, Action("archive"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanAct(tt.user, tt.task, tt.action))
		})
	}
}

func TestCanAct_StrictAdminOwned(t *testing.T) {
	p := Policy{AdminMayActOnAdminOwned: false}
	chiefTask := entity.Task{ID: 11, Owner: "chief@x.com", OwnerRole: entity.RoleAdmin}
	annTask := entity.Task{ID: 10, Owner: "ann@x.com", OwnerRole: entity.RoleIntern}

	assert.True(t, p.CanAct(root, chiefTask, Read))
	assert.False(t, p.CanAct(root, chiefTask, Update))
	assert.False(t, p.CanAct(root, chiefTask, Delete))
	assert.True(t, p.CanAct(chief, chiefTask, Delete), "owner is never blocked")
	assert.True(t, p.CanAct(root, annTask, Delete))
}

func TestCanAct_OwnerKeyIsCaseInsensitive(t *testing.T) {
	task := entity.Task{Owner: "ann@x.com"}
	upper := entity.User{Email: "  ANN@X.COM ", Role: entity.RoleIntern}
	assert.True(t, Default().CanAct(upper, task, Update))
}
