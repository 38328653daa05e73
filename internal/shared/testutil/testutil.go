// Package testutil builds throwaway databases, caches and tokens for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"skybook/internal/shared/config"
	"skybook/internal/shared/database"
	"skybook/internal/shared/utils/response"
	"skybook/internal/users"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const JWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// Config returns settings for tests: no Redis, no Kafka, no rate limiting
func Config() *config.Config {
	cfg := config.Load()
	cfg.GinMode = gin.TestMode
	cfg.APIVersion = ""
	cfg.APIPrefix = "/api"
	cfg.JWT.Secret = JWTSecret
	cfg.JWT.Issuer = "skybook-test"
	cfg.JWT.JWTExpiresIn = 15 * time.Minute
	cfg.JWT.RefreshExpiresIn = time.Hour
	cfg.Redis.Enabled = false
	cfg.Kafka.Enabled = false
	cfg.RateLimit.Enabled = false
	cfg.MetricsEnabled = false
	return cfg
}

// NewDB opens a private in-memory SQLite database with every table migrated
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared-cache database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewRedis starts an in-process Redis and returns a client for it
func NewRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// CreateUser inserts a user with its profile and returns it
func CreateUser(t testing.TB, db *gorm.DB, email string, role users.Role) *users.User {
	t.Helper()

	user := &users.User{Email: email, Password: "not-a-hash"}
	require.NoError(t, db.Omit("Profile").Create(user).Error)

	name := strings.SplitN(email, "@", 2)[0]
	profile := &users.Profile{UserID: user.ID, FirstName: name, LastName: "Tester", Email: email, Role: role}
	require.NoError(t, db.Create(profile).Error)

	user.Profile = profile
	return user
}

// AccessToken signs an access token the auth middleware accepts
func AccessToken(t testing.TB, userID uuid.UUID, email string, role users.Role) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"email":   email,
		"role":    string(role),
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	require.NoError(t, err)
	return signed
}

// Envelope is a decoded response whose data is left raw
type Envelope struct {
	response.StandardApiResponse
	Data json.RawMessage `json:"data"`
}

// DecodeEnvelope decodes a response body and, when out is non-nil, its data
func DecodeEnvelope(t testing.TB, body io.Reader, out interface{}) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}
