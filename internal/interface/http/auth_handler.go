package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-tracker-api/internal/application"
	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	"github.com/oksasatya/task-tracker-api/pkg/apperror"
	"github.com/oksasatya/task-tracker-api/pkg/response"
	"github.com/oksasatya/task-tracker-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Presence is checked by the service so missing fields get its messages.
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	Role      entity.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// Signup POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, apperror.KindValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		h.Logger.WithFields(logrus.Fields{"ip": clientIP(c), "kind": apperror.KindOf(err)}).Info("signup rejected")
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, newProfile(u), "user registered", nil)
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, apperror.KindValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Logger.WithFields(logrus.Fields{"ip": clientIP(c), "kind": apperror.KindOf(err)}).Info("login rejected")
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, loginResponse{Token: res.Token, Role: res.Role, ExpiresAt: res.ExpiresAt}, "login successful", nil)
}
