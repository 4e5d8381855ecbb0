package entity

import "time"

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the stored lifecycle state. "Overdue" is derived by clients from
// DueDate and is never stored.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// DueDateLayout is the calendar date format accepted for Task.DueDate.
const DueDateLayout = "2006-01-02"

// Task is a unit of work owned by exactly one user.
// Owner and OwnerRole are set at creation and never reassigned.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	DueDate     string    `json:"dueDate"`
	Status      Status    `json:"status"`
	Owner       string    `json:"owner"`
	OwnerRole   Role      `json:"ownerRole"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskEventType names a committed task mutation.
type TaskEventType string

const (
	TaskCreated TaskEventType = "task.created"
	TaskUpdated TaskEventType = "task.updated"
	TaskDeleted TaskEventType = "task.deleted"
)

// TaskEvent is published after a task mutation has been persisted.
type TaskEvent struct {
	Type       TaskEventType `json:"type"`
	TaskID     int64         `json:"task_id"`
	Title      string        `json:"title"`
	Status     Status        `json:"status"`
	Owner      string        `json:"owner"`
	ActorID    int64         `json:"actor_id"`
	ActorName  string        `json:"actor_name"`
	ActorEmail string        `json:"actor_email"`
	ActorRole  Role          `json:"actor_role"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// ByOwner reports whether the actor acted on their own task.
func (e TaskEvent) ByOwner() bool {
	return NormalizeEmail(e.ActorEmail) == e.Owner
}
