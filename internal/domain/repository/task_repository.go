package repository

import (
	"context"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
)

// TaskRepository is the task store. Create, Update and Delete each run their
// read, change and persist steps as one exclusive section; List and FindByID
// never observe a half-applied write.
type TaskRepository interface {
	// List returns every task in insertion order.
	List(ctx context.Context) ([]entity.Task, error)
	FindByID(ctx context.Context, id int64) (*entity.Task, error)
	// Create assigns t.ID and persists t.
	Create(ctx context.Context, t *entity.Task) error
	// Update loads task id, lets mutate change a copy of it and persists the
	// result. A mutate error aborts the update and nothing is written.
	Update(ctx context.Context, id int64, mutate func(t *entity.Task) error) (*entity.Task, error)
	// Delete loads task id, asks check for permission and removes it.
	// A check error aborts the delete.
	Delete(ctx context.Context, id int64, check func(t entity.Task) error) (*entity.Task, error)
}
