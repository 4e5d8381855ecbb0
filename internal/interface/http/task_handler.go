package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-tracker-api/internal/application"
	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	"github.com/oksasatya/task-tracker-api/internal/interface/middleware"
	"github.com/oksasatya/task-tracker-api/pkg/apperror"
	"github.com/oksasatya/task-tracker-api/pkg/response"
	"github.com/oksasatya/task-tracker-api/pkg/validation"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description" binding:"max=4000"`
	Priority    string `json:"priority" binding:"omitempty,priority"`
	DueDate     string `json:"dueDate" binding:"omitempty,duedate"`
}

// updateTaskRequest distinguishes absent fields (nil) from empty ones.
// Values are checked by the service once the caller is known to be allowed.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
}

func (r updateTaskRequest) patch() application.TaskPatch {
	p := application.TaskPatch{Title: r.Title, Description: r.Description, DueDate: r.DueDate}
	if r.Priority != nil {
		v := entity.Priority(*r.Priority)
		p.Priority = &v
	}
	if r.Status != nil {
		v := entity.Status(*r.Status)
		p.Status = &v
	}
	return p
}

type deleteResponse struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

func invalidPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, apperror.KindValidation, "invalid payload", validation.ToDetails(err))
}

// taskID parses :id. Anything that cannot name a task is reported as not found.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.FromError(c, application.ErrTaskNotFound)
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) (*entity.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, apperror.KindAuthentication, "invalid token", nil)
	}
	return u, ok
}

// List GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	tasks, err := h.Svc.ListVisible(c.Request.Context(), u)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tasks, "ok", map[string]any{"count": len(tasks)})
}

// Get GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}
	t, err := h.Svc.Get(c.Request.Context(), u, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t, "ok", nil)
}

// Create POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), u, application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    entity.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t, "task created", nil)
}

// Update PATCH /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req updateTaskRequest
	// An empty body is an empty patch.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		invalidPayload(c, err)
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), u, id, req.patch())
	if err != nil {
		h.Logger.WithFields(logrus.Fields{"task_id": id, "user_id": u.ID, "kind": apperror.KindOf(err)}).Debug("update rejected")
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t, "task updated", nil)
}

// Delete DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), u, id); err != nil {
		h.Logger.WithFields(logrus.Fields{"task_id": id, "user_id": u.ID, "kind": apperror.KindOf(err)}).Debug("delete rejected")
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, deleteResponse{Deleted: true, ID: id}, "task deleted", nil)
}
