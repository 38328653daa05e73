package profiles_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skybook/internal/profiles"
	"skybook/internal/shared/constants"
	"skybook/internal/shared/middleware"
	"skybook/internal/shared/testutil"
	"skybook/internal/users"
	"skybook/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProfileAccessRules(t *testing.T) {
	db := testutil.NewDB(t)
	svc := profiles.NewService(profiles.NewRepository(db))
	ctx := context.Background()

	jane := testutil.CreateUser(t, db, "jane@skybook.dev", users.RoleUser)
	john := testutil.CreateUser(t, db, "john@skybook.dev", users.RoleUser)
	admin := testutil.CreateUser(t, db, "admin@skybook.dev", users.RoleAdmin)

	asJane := profiles.Requester{UserID: jane.ID}
	asJohn := profiles.Requester{UserID: john.ID}
	asAdmin := profiles.Requester{UserID: admin.ID, IsAdmin: true}

	own, err := svc.GetProfile(ctx, asJane, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@skybook.dev", own.Email)
	assert.False(t, own.IsAdmin())

	_, err = svc.GetProfile(ctx, asJohn, jane.ID)
	assert.ErrorIs(t, err, profiles.ErrForbidden)

	_, err = svc.GetProfile(ctx, asAdmin, uuid.New())
	assert.ErrorIs(t, err, profiles.ErrProfileNotFound)

	updated, err := svc.UpdateProfile(ctx, asJane, jane.ID, profiles.UpdateProfileRequest{FirstName: strPtr(" Janet ")})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)

	_, err = svc.UpdateProfile(ctx, asJane, jane.ID, profiles.UpdateProfileRequest{Role: strPtr("admin")})
	assert.ErrorIs(t, err, profiles.ErrRoleChangeForbidden)

	_, err = svc.UpdateProfile(ctx, asJane, jane.ID, profiles.UpdateProfileRequest{})
	assert.ErrorIs(t, err, profiles.ErrEmptyProfileChanges)

	promoted, err := svc.UpdateProfile(ctx, asAdmin, jane.ID, profiles.UpdateProfileRequest{Role: strPtr("admin")})
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
}

func TestProfileCacheIsDroppedOnUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	mr, rdb := testutil.NewRedis(t)
	svc := profiles.NewService(profiles.NewRepository(db))
	svc.SetCacheService(cache.NewService(rdb))
	ctx := context.Background()

	jane := testutil.CreateUser(t, db, "jane@skybook.dev", users.RoleUser)
	asJane := profiles.Requester{UserID: jane.ID}
	key := constants.BuildUserProfileKey(jane.ID.String())

	_, err := svc.GetProfile(ctx, asJane, jane.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))

	_, err = svc.UpdateProfile(ctx, asJane, jane.ID, profiles.UpdateProfileRequest{LastName: strPtr("Smith")})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key))

	fresh, err := svc.GetProfile(ctx, asJane, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Smith", fresh.LastName)
}

func TestProfileEndpoints(t *testing.T) {
	db := testutil.NewDB(t)
	svc := profiles.NewService(profiles.NewRepository(db))
	engine := gin.New()
	profiles.SetupProfileRoutes(engine.Group("/api"), profiles.NewController(svc), middleware.JWTAuth(testutil.JWTSecret))

	jane := testutil.CreateUser(t, db, "jane@skybook.dev", users.RoleUser)
	john := testutil.CreateUser(t, db, "john@skybook.dev", users.RoleUser)
	janeToken := testutil.AccessToken(t, jane.ID, jane.Email, users.RoleUser)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"own profile", http.MethodGet, "/api/users/" + jane.ID.String(), "", http.StatusOK},
		{"other profile", http.MethodGet, "/api/users/" + john.ID.String(), "", http.StatusForbidden},
		{"bad id", http.MethodGet, "/api/users/abc", "", http.StatusBadRequest},
		{"rename", http.MethodPut, "/api/users/" + jane.ID.String(), `{"first_name":"Janet"}`, http.StatusOK},
		{"self promotion", http.MethodPut, "/api/users/" + jane.ID.String(), `{"role":"admin"}`, http.StatusForbidden},
		{"unknown role", http.MethodPut, "/api/users/" + jane.ID.String(), `{"role":"pilot"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+janeToken)
			engine.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
