package auth_test

import (
	"context"
	"testing"

	"skybook/internal/auth"
	"skybook/internal/shared/testutil"
	"skybook/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (auth.Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return auth.NewService(auth.NewRepository(db), testutil.Config()), db
}

func register(t *testing.T, svc auth.Service, email string) *auth.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &auth.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  "qwerty",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	svc, db := newAuthService(t)

	resp := register(t, svc, "  Jane@SkyBook.dev ")

	assert.Equal(t, "jane@skybook.dev", resp.User.Email)
	assert.Equal(t, "Jane", resp.User.FirstName)
	assert.Equal(t, string(users.RoleUser), resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	var profile users.Profile
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&profile).Error)
	assert.Equal(t, users.RoleUser, profile.Role)
	assert.Equal(t, "Doe", profile.LastName)

	var user users.User
	require.NoError(t, db.Where("id = ?", resp.User.ID).First(&user).Error)
	assert.NotEqual(t, "qwerty", user.Password, "password must be stored hashed")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	register(t, svc, "jane@skybook.dev")

	_, err := svc.Register(context.Background(), &auth.RegisterRequest{
		FirstName: "Other", LastName: "Jane", Email: "JANE@skybook.dev", Password: "secret1",
	})
	assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	register(t, svc, "jane@skybook.dev")
	ctx := context.Background()

	resp, err := svc.Login(ctx, &auth.LoginRequest{Email: "jane@skybook.dev", Password: "qwerty"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, auth.TokenTypeAccess, claims.Type)
	assert.Equal(t, "user", claims.Role)

	_, err = svc.Login(ctx, &auth.LoginRequest{Email: "jane@skybook.dev", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &auth.LoginRequest{Email: "nobody@skybook.dev", Password: "qwerty"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshTokenPicksUpRoleChange(t *testing.T) {
	svc, db := newAuthService(t)
	resp := register(t, svc, "jane@skybook.dev")
	ctx := context.Background()

	_, err := svc.RefreshToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "an access token is not a refresh token")

	_, err = svc.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, db.Model(&users.Profile{}).Where("user_id = ?", resp.User.ID).Update("role", users.RoleAdmin).Error)

	refreshed, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", refreshed.User.Role)

	claims, err := svc.ValidateToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestGetUser(t *testing.T) {
	svc, _ := newAuthService(t)
	resp := register(t, svc, "jane@skybook.dev")

	user, err := svc.GetUser(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@skybook.dev", user.Email)

	_, err = svc.GetUser(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
