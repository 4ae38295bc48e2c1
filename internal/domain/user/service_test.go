package user

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/food-delivery-backend/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&User{}))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-long-enough-for-hmac",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(db, cfg, logger)
}

func register(t *testing.T, svc *Service) *AuthResponse {
	t.Helper()

	resp, err := svc.Register(&RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Phone:    "9876543210",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	svc := newTestService(t)

	resp := register(t, svc)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "asha@example.com", resp.User.Email)
	assert.Empty(t, resp.User.Password)
	assert.False(t, resp.User.IsAdmin)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	register(t, svc)

	_, err := svc.Register(&RegisterRequest{
		Name:     "Other",
		Email:    "ASHA@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	register(t, svc)

	resp, err := svc.Login(&LoginRequest{Email: "Asha@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotNil(t, resp.User.LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(t)
	register(t, svc)

	_, err := svc.Login(&LoginRequest{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc := newTestService(t)
	registered := register(t, svc)

	resp, err := svc.RefreshToken(registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := newTestService(t)
	registered := register(t, svc)

	_, err := svc.RefreshToken(registered.AccessToken)
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc := newTestService(t)
	registered := register(t, svc)

	require.NoError(t, svc.ChangePassword(registered.User.ID, "secret123", "newsecret456"))

	_, err := svc.Login(&LoginRequest{Email: "asha@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "asha@example.com", Password: "newsecret456"})
	assert.NoError(t, err)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	svc := newTestService(t)
	registered := register(t, svc)

	err := svc.ChangePassword(registered.User.ID, "wrong", "newsecret456")
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService(t)
	registered := register(t, svc)

	name := "Asha K"
	got, err := svc.UpdateProfile(registered.User.ID, &UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", got.Name)
	assert.Equal(t, "9876543210", got.Phone)
}

func TestSetActive(t *testing.T) {
	svc := newTestService(t)
	registered := register(t, svc)

	require.NoError(t, svc.SetActive(registered.User.ID, false))

	_, err := svc.Login(&LoginRequest{Email: "asha@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestListUsers(t *testing.T) {
	svc := newTestService(t)
	register(t, svc)

	users, total, err := svc.ListUsers(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Password)
}
