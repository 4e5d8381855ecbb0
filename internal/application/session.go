package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	repo "github.com/oksasatya/task-tracker-api/internal/domain/repository"
	"github.com/oksasatya/task-tracker-api/pkg/helpers"
)

// SessionVerifier resolves a bearer token to the live user record.
type SessionVerifier struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewSessionVerifier(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *SessionVerifier {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &SessionVerifier{Users: users, JWT: jwt, Logger: logger}
}

// Verify returns ErrNoToken for an empty token and ErrInvalidToken for any
// signature, expiry, encoding or unknown-user failure. The user is read from
// the store on every call, so the token's role claim is never trusted.
func (v *SessionVerifier) Verify(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	claims, err := v.JWT.ParseToken(token)
	if err != nil {
		v.Logger.WithError(err).Debug("token rejected")
		return nil, ErrInvalidToken
	}
	u, err := v.Users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			v.Logger.WithField("user_id", claims.UserID).Debug("token for unknown user")
			return nil, ErrInvalidToken
		}
		return nil, classify(err, errUserStoreUnavailable)
	}
	return u, nil
}
