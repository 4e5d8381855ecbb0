package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	"github.com/oksasatya/task-tracker-api/pkg/apperror"
	"github.com/oksasatya/task-tracker-api/pkg/response"
)

const (
	CtxUserKey   = "user"
	CtxUserIDKey = "userID"
)

// SessionVerifier resolves a raw bearer token to the user it was issued to.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*entity.User, error)
}

// Auth requires an "Authorization: Bearer <token>" header. Every rejection is
// the same 401 so clients cannot tell a missing token from a bad one.
// On success it sets user and userID in the Gin context.
func Auth(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := verifier.Verify(c.Request.Context(), bearerToken(c))
		if err != nil {
			if apperror.KindOf(err) != apperror.KindAuthentication {
				response.FromError(c, err)
				return
			}
			response.Error[any](c, http.StatusUnauthorized, apperror.KindAuthentication, "invalid token", nil)
			return
		}
		c.Set(CtxUserKey, user)
		c.Set(CtxUserIDKey, strconv.FormatInt(user.ID, 10))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
