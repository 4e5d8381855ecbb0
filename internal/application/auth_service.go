package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	repo "github.com/oksasatya/task-tracker-api/internal/domain/repository"
	"github.com/oksasatya/task-tracker-api/pkg/helpers"
)

// AuthOptions carries the configurable parts of signup and login.
type AuthOptions struct {
	PasswordCost int
	// AllowSelfAssignedRole lets signup requests choose role=admin.
	AllowSelfAssignedRole bool
	// UnifiedCredentialErrors reports "invalid credentials" instead of
	// distinguishing an unknown email from a wrong password.
	UnifiedCredentialErrors bool
}

// AuthService registers users and is the only issuer of session tokens.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
	Opts   AuthOptions
	Now    func() time.Time
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, opts AuthOptions) *AuthService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &AuthService{Users: users, JWT: jwt, Logger: logger, Opts: opts, Now: time.Now}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Role      entity.Role
	User      *entity.User
}

// Signup validates the request, hashes the password and inserts the user.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	name := strings.TrimSpace(in.Name)
	email := entity.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, ErrSignupMissingFields
	}
	if len(in.Password) > helpers.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	role := in.Role
	if role == "" {
		role = entity.RoleIntern
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if role == entity.RoleAdmin && !s.Opts.AllowSelfAssignedRole {
		s.Logger.WithField("email", email).Warn("signup requested admin role")
		return nil, ErrRoleNotPermitted
	}

	hash, err := helpers.HashPasswordWithCost(in.Password, s.Opts.PasswordCost)
	if err != nil {
		return nil, classify(err, "password hashing failed")
	}
	u := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.Now().UTC(),
	}
	if err := s.Users.Insert(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		s.Logger.WithError(err).Error("insert user failed")
		return nil, classify(err, errUserStoreUnavailable)
	}
	authMetrics.Add("signup", 1)
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user signed up")
	return u, nil
}

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrLoginMissingFields
	}
	u, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			authMetrics.Add("login_failed", 1)
			return nil, s.credentialError(ErrInvalidEmail)
		}
		return nil, classify(err, errUserStoreUnavailable)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		authMetrics.Add("login_failed", 1)
		s.Logger.WithField("user_id", u.ID).Info("login rejected")
		return nil, s.credentialError(ErrInvalidPassword)
	}

	token, exp, err := s.JWT.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, classify(err, "token generation failed")
	}
	authMetrics.Add("login", 1)
	return &LoginResult{Token: token, ExpiresAt: exp, Role: u.Role, User: u}, nil
}

func (s *AuthService) credentialError(specific error) error {
	if s.Opts.UnifiedCredentialErrors {
		return ErrInvalidCredentials
	}
	return specific
}
