package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	"github.com/oksasatya/task-tracker-api/internal/interface/middleware"
	"github.com/oksasatya/task-tracker-api/pkg/apperror"
	"github.com/oksasatya/task-tracker-api/pkg/response"
)

// profile is the public view of a user; the password hash never leaves the store.
type profile struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

func newProfile(u *entity.User) profile {
	return profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

type UserHandler struct{}

func NewUserHandler() *UserHandler { return &UserHandler{} }

// Me GET /me
func (h *UserHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, apperror.KindAuthentication, "invalid token", nil)
		return
	}
	response.Success(c, http.StatusOK, newProfile(u), "ok", nil)
}
