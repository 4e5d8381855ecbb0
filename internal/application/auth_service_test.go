package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	"github.com/oksasatya/task-tracker-api/internal/infrastructure/filestore"
	"github.com/oksasatya/task-tracker-api/pkg/apperror"
	"github.com/oksasatya/task-tracker-api/pkg/helpers"
)

func newAuth(t *testing.T, opts AuthOptions) (*AuthService, *filestore.UserStore, *helpers.JWTManager) {
	t.Helper()
	users, _, _ := openStores(t)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	if opts.PasswordCost == 0 {
		opts.PasswordCost = bcrypt.MinCost
	}
	return NewAuthService(users, jwt, nil, opts), users, jwt
}

func TestSignup_DefaultsToIntern(t *testing.T) {
	svc, users, _ := newAuth(t, AuthOptions{})

	u, err := svc.Signup(context.Background(), SignupInput{Name: "Ann", Email: " Ann@X.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleIntern, u.Role)
	assert.Equal(t, "ann@x.com", u.Email)
	assert.NotZero(t, u.ID)

	stored, err := users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.True(t, helpers.CompareHashAndPassword(stored.PasswordHash, "pw1"))
}

func TestSignup_MissingFields(t *testing.T) {
	svc, _, _ := newAuth(t, AuthOptions{})
	cases := []SignupInput{
		{Email: "a@x.com", Password: "pw"},
		{Name: "A", Password: "pw"},
		{Name: "A", Email: "a@x.com"},
		{Name: "   ", Email: "a@x.com", Password: "pw"},
	}
	for _, in := range cases {
		_, err := svc.Signup(context.Background(), in)
		assert.ErrorIs(t, err, ErrSignupMissingFields)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	}
}

func TestSignup_PasswordLongerThanBcryptLimit(t *testing.T) {
	svc, users, _ := newAuth(t, AuthOptions{})
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@x.com", Password: strings.Repeat("a", 73)})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	u, err := svc.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@x.com", Password: strings.Repeat("a", 72)})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
}

func TestSignup_DuplicateEmailDifferingInCase(t *testing.T) {
	svc, _, _ := newAuth(t, AuthOptions{})
	ctx := context.Background()
	_, err := svc.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{Name: "Ann 2", Email: "ANN@x.COM", Password: "pw2"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, apperror.KindDuplicate, apperror.KindOf(err))
}

func TestSignup_RoleSelection(t *testing.T) {
	ctx := context.Background()

	locked, _, _ := newAuth(t, AuthOptions{})
	_, err := locked.Signup(ctx, SignupInput{Name: "Eve", Email: "eve@x.com", Password: "pw", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, ErrRoleNotPermitted)

	_, err = locked.Signup(ctx, SignupInput{Name: "Eve", Email: "eve@x.com", Password: "pw", Role: "owner"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	open, _, _ := newAuth(t, AuthOptions{AllowSelfAssignedRole: true})
	u, err := open.Signup(ctx, SignupInput{Name: "Root", Email: "root@x.com", Password: "pw", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)
}

func TestLogin(t *testing.T) {
	svc, _, jwt := newAuth(t, AuthOptions{})
	ctx := context.Background()
	signed, err := svc.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "ANN@X.COM", "pw1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleIntern, res.Role)
	assert.NotEmpty(t, res.Token)

	claims, err := jwt.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, signed.ID, claims.UserID)
	assert.Equal(t, "intern", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)
}

func TestLogin_Failures(t *testing.T) {
	svc, _, _ := newAuth(t, AuthOptions{})
	ctx := context.Background()
	_, err := svc.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "", "pw1")
	assert.ErrorIs(t, err, ErrLoginMissingFields)
	_, err = svc.Login(ctx, "ann@x.com", "")
	assert.ErrorIs(t, err, ErrLoginMissingFields)

	_, err = svc.Login(ctx, "bob@x.com", "pw1")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))

	_, err = svc.Login(ctx, "ann@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLogin_UnifiedCredentialErrors(t *testing.T) {
	svc, _, _ := newAuth(t, AuthOptions{UnifiedCredentialErrors: true})
	ctx := context.Background()
	_, err := svc.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "bob@x.com", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "ann@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
