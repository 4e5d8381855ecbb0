package filestore

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	"github.com/oksasatya/task-tracker-api/internal/domain/repository"
)

// TaskStore is the JSON file backed task store.
type TaskStore struct {
	path string
	now  func() time.Time

	mu     sync.RWMutex
	tasks  []entity.Task
	lastID int64
}

func NewTaskStore(path string) (*TaskStore, error) {
	tasks, err := loadJSON[entity.Task](path)
	if err != nil {
		return nil, err
	}
	s := &TaskStore{path: path, now: time.Now, tasks: tasks}
	for _, t := range tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	return s, nil
}

func (s *TaskStore) List(_ context.Context) ([]entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *TaskStore) FindByID(_ context.Context, id int64) (*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		t := s.tasks[i]
		return &t, nil
	}
	return nil, repository.ErrNotFound
}

func (s *TaskStore) Create(_ context.Context, t *entity.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *t
	rec.ID = nextID(s.lastID, s.now())
	next := make([]entity.Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	next = append(next, rec)
	if err := saveJSON(s.path, next); err != nil {
		return err
	}
	s.tasks = next
	s.lastID = rec.ID
	*t = rec
	return nil
}

func (s *TaskStore) Update(_ context.Context, id int64, mutate func(t *entity.Task) error) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	rec := s.tasks[i]
	if err := mutate(&rec); err != nil {
		return nil, err
	}
	// identity and ownership are immutable whatever mutate did
	rec.ID = s.tasks[i].ID
	rec.Owner = s.tasks[i].Owner
	rec.OwnerRole = s.tasks[i].OwnerRole
	rec.CreatedAt = s.tasks[i].CreatedAt

	next := make([]entity.Task, len(s.tasks))
	copy(next, s.tasks)
	next[i] = rec
	if err := saveJSON(s.path, next); err != nil {
		return nil, err
	}
	s.tasks = next
	return &rec, nil
}

func (s *TaskStore) Delete(_ context.Context, id int64, check func(t entity.Task) error) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	removed := s.tasks[i]
	if err := check(removed); err != nil {
		return nil, err
	}
	next := make([]entity.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	if err := saveJSON(s.path, next); err != nil {
		return nil, err
	}
	s.tasks = next
	return &removed, nil
}

func (s *TaskStore) index(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

var _ repository.TaskRepository = (*TaskStore)(nil)
