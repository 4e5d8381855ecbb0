package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	tpl "github.com/oksasatya/task-tracker-api/pkg/mailer/templates"
)

// ErrBadEvent marks a message that can never be delivered and should be dropped.
var ErrBadEvent = errors.New("malformed task event")

// ActivityNotifier emails a task's owner when someone else changes it.
type ActivityNotifier struct {
	Sender  Sender
	AppName string
	Logger  *logrus.Logger
}

var verbs = map[entity.TaskEventType]string{
	entity.TaskCreated: "created",
	entity.TaskUpdated: "updated",
	entity.TaskDeleted: "deleted",
}

// Handle processes one queued TaskEvent. It reports whether an email was
// sent; events caused by the owner are skipped.
func (n *ActivityNotifier) Handle(ctx context.Context, body []byte) (bool, error) {
	var ev entity.TaskEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return false, fmt.Errorf("%w: %v", ErrBadEvent, err)
	}
	verb, ok := verbs[ev.Type]
	if !ok || ev.Owner == "" {
		return false, fmt.Errorf("%w: type %q owner %q", ErrBadEvent, ev.Type, ev.Owner)
	}
	if ev.ByOwner() {
		return false, nil
	}

	subject, text, html, err := tpl.Render(tpl.TaskActivity, tpl.ActivityData{
		AppName:    n.AppName,
		Verb:       verb,
		Title:      ev.Title,
		Status:     string(ev.Status),
		ActorName:  ev.ActorName,
		ActorEmail: ev.ActorEmail,
		ActorRole:  string(ev.ActorRole),
		OccurredAt: ev.OccurredAt,
	})
	if err != nil {
		return false, fmt.Errorf("%w: render: %v", ErrBadEvent, err)
	}
	if err := n.Sender.Send(ctx, ev.Owner, subject, text, html); err != nil {
		return false, fmt.Errorf("send to owner: %w", err)
	}
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"task_id": ev.TaskID, "event": ev.Type}).Info("activity email sent")
	}
	return true, nil
}
