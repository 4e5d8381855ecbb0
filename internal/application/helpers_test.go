package application

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	"github.com/oksasatya/task-tracker-api/internal/infrastructure/filestore"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.TaskEvent
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := body.(entity.TaskEvent); ok {
		p.events = append(p.events, ev)
	}
	return p.err
}

func (p *recordingPublisher) Events() []entity.TaskEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.TaskEvent(nil), p.events...)
}

func openStores(t *testing.T) (*filestore.UserStore, *filestore.TaskStore, string) {
	t.Helper()
	dir := t.TempDir()
	users, err := filestore.NewUserStore(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	tasksPath := filepath.Join(dir, "tasks.json")
	tasks, err := filestore.NewTaskStore(tasksPath)
	require.NoError(t, err)
	return users, tasks, tasksPath
}

func addUser(t *testing.T, users *filestore.UserStore, name, email string, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{Name: name, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, users.Insert(context.Background(), u))
	return u
}

// brokenTasks fails every call like an unreadable backing store.
type brokenTasks struct{}

var errDiskGone = errors.New("disk gone")

func (brokenTasks) List(context.Context) ([]entity.Task, error) { return nil, errDiskGone }
func (brokenTasks) FindByID(context.Context, int64) (*entity.Task, error) {
	return nil, errDiskGone
}
func (brokenTasks) Create(context.Context, *entity.Task) error { return errDiskGone }
func (brokenTasks) Update(context.Context, int64, func(*entity.Task) error) (*entity.Task, error) {
	return nil, errDiskGone
}
func (brokenTasks) Delete(context.Context, int64, func(entity.Task) error) (*entity.Task, error) {
	return nil, errDiskGone
}
