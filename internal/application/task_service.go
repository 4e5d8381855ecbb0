package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	"github.com/oksasatya/task-tracker-api/internal/domain/policy"
	repo "github.com/oksasatya/task-tracker-api/internal/domain/repository"
	"github.com/oksasatya/task-tracker-api/pkg/apperror"
	"github.com/oksasatya/task-tracker-api/pkg/helpers"
)

// ActivityPublisher receives a TaskEvent after each committed mutation.
// helpers.RabbitPublisher satisfies it.
type ActivityPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

const publishTimeout = 2 * time.Second

// TaskService owns the task lifecycle. Every decision about an existing task
// is made inside the store's exclusive section, against the stored record.
type TaskService struct {
	Tasks  repo.TaskRepository
	Users  repo.UserRepository
	Policy policy.Policy
	Events ActivityPublisher
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewTaskService(tasks repo.TaskRepository, users repo.UserRepository, pol policy.Policy, events ActivityPublisher, logger *logrus.Logger) *TaskService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &TaskService{Tasks: tasks, Users: users, Policy: pol, Events: events, Logger: logger, Now: time.Now}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    entity.Priority
	DueDate     string
}

// TaskPatch is a partial update; nil fields are left untouched.
// An empty DueDate clears the due date.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *entity.Priority
	DueDate     *string
	Status      *entity.Status
}

func (p TaskPatch) validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return ErrInvalidPriority
	}
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if p.DueDate != nil && !validDueDate(*p.DueDate) {
		return ErrInvalidDueDate
	}
	return nil
}

func (p TaskPatch) apply(t *entity.Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

func validDueDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(entity.DueDateLayout, s)
	return err == nil
}

// ListVisible returns the tasks user may read, in storage order.
func (s *TaskService) ListVisible(ctx context.Context, user *entity.User) ([]entity.Task, error) {
	all, err := s.Tasks.List(ctx)
	if err != nil {
		return nil, classify(err, errTaskStoreUnavailable)
	}
	out := make([]entity.Task, 0, len(all))
	for _, t := range all {
		if s.Policy.CanAct(*user, t, policy.Read) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TaskService) Get(ctx context.Context, user *entity.User, id int64) (*entity.Task, error) {
	t, err := s.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err)
	}
	if !s.Policy.CanAct(*user, *t, policy.Read) {
		return nil, ErrForbidden
	}
	return t, nil
}

// Create stores a new Pending task owned by user.
func (s *TaskService) Create(ctx context.Context, user *entity.User, in CreateTaskInput) (*entity.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityLow
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if !validDueDate(in.DueDate) {
		return nil, ErrInvalidDueDate
	}

	now := s.Now().UTC()
	t := &entity.Task{
		Title:       title,
		Description: in.Description,
		Priority:    priority,
		DueDate:     in.DueDate,
		Status:      entity.StatusPending,
		Owner:       user.OwnerKey(),
		OwnerRole:   user.Role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		s.Logger.WithError(err).WithField("user_id", user.ID).Error("create task failed")
		return nil, classify(err, errTaskStoreUnavailable)
	}
	taskMetrics.Add("created", 1)
	s.publish(ctx, entity.TaskCreated, user, *t)
	return t, nil
}

// Update applies patch to task id if user may update it.
func (s *TaskService) Update(ctx context.Context, user *entity.User, id int64, patch TaskPatch) (*entity.Task, error) {
	updated, err := s.Tasks.Update(ctx, id, func(t *entity.Task) error {
		if err := s.authorize(ctx, user, *t, policy.Update); err != nil {
			return err
		}
		if err := patch.validate(); err != nil {
			return err
		}
		patch.apply(t)
		t.UpdatedAt = s.stamp(t.UpdatedAt)
		return nil
	})
	if err != nil {
		return nil, s.storeError(err)
	}
	taskMetrics.Add("updated", 1)
	s.publish(ctx, entity.TaskUpdated, user, *updated)
	return updated, nil
}

// Delete removes task id if user may delete it.
func (s *TaskService) Delete(ctx context.Context, user *entity.User, id int64) error {
	removed, err := s.Tasks.Delete(ctx, id, func(t entity.Task) error {
		return s.authorize(ctx, user, t, policy.Delete)
	})
	if err != nil {
		return s.storeError(err)
	}
	taskMetrics.Add("deleted", 1)
	s.publish(ctx, entity.TaskDeleted, user, *removed)
	return nil
}

// authorize applies the policy. Under the strict admin variant the owner's
// current role is looked up instead of trusting the role stored on the task.
func (s *TaskService) authorize(ctx context.Context, user *entity.User, t entity.Task, action policy.Action) error {
	if !s.Policy.AdminMayActOnAdminOwned && user.IsAdmin() && t.Owner != user.OwnerKey() {
		owner, err := s.Users.FindByEmail(ctx, t.Owner)
		switch {
		case err == nil:
			t.OwnerRole = owner.Role
		case errors.Is(err, repo.ErrNotFound):
			t.OwnerRole = ""
		default:
			return classify(err, errUserStoreUnavailable)
		}
	}
	if !s.Policy.CanAct(*user, t, action) {
		return ErrForbidden
	}
	return nil
}

// stamp returns the mutation time, kept strictly after prev.
func (s *TaskService) stamp(prev time.Time) time.Time {
	now := s.Now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

func (s *TaskService) storeError(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTaskNotFound
	}
	if !apperror.Classified(err) {
		s.Logger.WithError(err).Error("task store failed")
	}
	return classify(err, errTaskStoreUnavailable)
}

func (s *TaskService) publish(ctx context.Context, typ entity.TaskEventType, actor *entity.User, t entity.Task) {
	if s.Events == nil {
		return
	}
	ev := entity.TaskEvent{
		Type:       typ,
		TaskID:     t.ID,
		Title:      t.Title,
		Status:     t.Status,
		Owner:      t.Owner,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActorEmail: actor.Email,
		ActorRole:  actor.Role,
		OccurredAt: s.Now().UTC(),
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.Events.PublishJSON(c, ev); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"task_id": t.ID, "event": typ}).Warn("publish task event failed")
	}
}
