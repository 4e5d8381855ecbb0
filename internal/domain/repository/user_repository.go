package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned by Insert on a case-insensitive email match.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// UserRepository is the credential store. Implementations serialize Insert
// against every other call so the duplicate check and the write are atomic.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	// Insert assigns u.ID and persists u.
	Insert(ctx context.Context, u *entity.User) error
	List(ctx context.Context) ([]entity.User, error)
}
