package filestore

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	"github.com/oksasatya/task-tracker-api/internal/domain/repository"
)

// UserStore is the JSON file backed credential store.
type UserStore struct {
	path string
	now  func() time.Time

	mu     sync.RWMutex
	users  []entity.User
	lastID int64
}

// NewUserStore opens (or lazily creates) the user file at path. An unreadable
// or corrupt file is an error, never an empty store.
func NewUserStore(path string) (*UserStore, error) {
	users, err := loadJSON[entity.User](path)
	if err != nil {
		return nil, err
	}
	s := &UserStore{path: path, now: time.Now, users: users}
	for _, u := range users {
		if u.ID > s.lastID {
			s.lastID = u.ID
		}
	}
	return s, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	key := entity.NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByEmail(key); i >= 0 {
		u := s.users[i]
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) FindByID(_ context.Context, id int64) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) Insert(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexByEmail(entity.NormalizeEmail(u.Email)) >= 0 {
		return repository.ErrDuplicateEmail
	}
	rec := *u
	rec.ID = nextID(s.lastID, s.now())
	next := make([]entity.User, len(s.users), len(s.users)+1)
	copy(next, s.users)
	next = append(next, rec)
	if err := saveJSON(s.path, next); err != nil {
		return err
	}
	s.users = next
	s.lastID = rec.ID
	*u = rec
	return nil
}

func (s *UserStore) List(_ context.Context) ([]entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *UserStore) indexByEmail(key string) int {
	for i, u := range s.users {
		if entity.NormalizeEmail(u.Email) == key {
			return i
		}
	}
	return -1
}

var _ repository.UserRepository = (*UserStore)(nil)
