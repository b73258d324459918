package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"staysphere/internal/database"
	"staysphere/internal/pkg/jwt"
	"staysphere/internal/pkg/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
	sent  int
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{codes: map[string]string{}}
}

func (m *captureMailer) SendOTP(_ context.Context, email string, purpose Purpose, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[string(purpose)+":"+email] = code
	m.sent++
	return nil
}

func (m *captureMailer) code(purpose Purpose, email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[string(purpose)+":"+email]
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func setupTestService(t *testing.T, cooldown time.Duration) (*Service, *captureMailer, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	mailer := newCaptureMailer()
	otp := NewOTPStore(kvstore.NewMemoryStore(), OTPConfig{
		Pepper:         "pepper",
		TTL:            10 * time.Minute,
		ResendCooldown: cooldown,
		MaxAttempts:    5,
	})
	svc := NewService(NewUserRepository(db), otp, mailer, jwt.New("secret", time.Hour), zap.NewNop())
	return svc, mailer, db
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func registerGuest(t *testing.T, svc *Service, email string) *User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Test Guest",
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return u
}

func TestService_RegisterVerifyLogin(t *testing.T) {
	svc, mailer, _ := setupTestService(t, 0)
	ctx := context.Background()

	u := registerGuest(t, svc, "  Guest@Example.com ")
	assert.Equal(t, "guest@example.com", u.Email)
	assert.Equal(t, RoleGuest, u.Role)
	assert.False(t, u.EmailVerified)

	_, err := svc.Login(ctx, "guest@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	_, err = svc.VerifySignup(ctx, "guest@example.com", wrongCode(mailer.code(PurposeSignup, "guest@example.com")))
	assert.ErrorIs(t, err, ErrInvalidOTP)

	result, err := svc.VerifySignup(ctx, "guest@example.com", mailer.code(PurposeSignup, "guest@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.User.EmailVerified)
	assert.Equal(t, int64(3600), result.ExpiresIn)

	result, err = svc.Login(ctx, "GUEST@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, result.User.ID)

	_, err = svc.Login(ctx, "guest@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := setupTestService(t, 0)
	registerGuest(t, svc, "dup@example.com")

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Again", Email: "DUP@example.com", Password: "password-2"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Register_AdminNotAllowed(t *testing.T) {
	svc, _, _ := setupTestService(t, 0)

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Mallory", Email: "m@example.com", Password: "password-1", Role: RoleAdmin})
	assert.ErrorIs(t, err, ErrRoleNotAllowed)
}

func TestService_OTP_TooManyAttempts(t *testing.T) {
	svc, mailer, _ := setupTestService(t, 0)
	ctx := context.Background()
	registerGuest(t, svc, "brute@example.com")
	code := mailer.code(PurposeSignup, "brute@example.com")

	wrong := wrongCode(code)
	for i := 0; i < 4; i++ {
		_, err := svc.VerifySignup(ctx, "brute@example.com", wrong)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}
	_, err := svc.VerifySignup(ctx, "brute@example.com", wrong)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	_, err = svc.VerifySignup(ctx, "brute@example.com", code)
	assert.ErrorIs(t, err, ErrInvalidOTP, "code is discarded after too many attempts")
}

func TestService_ResendCooldown(t *testing.T) {
	svc, mailer, _ := setupTestService(t, time.Minute)
	ctx := context.Background()
	registerGuest(t, svc, "cool@example.com")

	err := svc.ResendOTP(ctx, "cool@example.com", PurposeSignup)
	assert.ErrorIs(t, err, ErrOTPCooldown)
	assert.Equal(t, 1, mailer.sent)

	assert.NoError(t, svc.ResendOTP(ctx, "nobody@example.com", PurposeSignup))
}

func TestService_PasswordReset(t *testing.T) {
	svc, mailer, db := setupTestService(t, 0)
	ctx := context.Background()
	u := registerGuest(t, svc, "reset@example.com")
	require.NoError(t, db.Model(&User{}).Where("id = ?", u.ID).Update("email_verified", true).Error)

	require.NoError(t, svc.ForgotPassword(ctx, "unknown@example.com"))
	assert.Empty(t, mailer.code(PurposeReset, "unknown@example.com"))

	require.NoError(t, svc.ForgotPassword(ctx, "reset@example.com"))
	code := mailer.code(PurposeReset, "reset@example.com")
	require.NotEmpty(t, code)

	err := svc.ResetPassword(ctx, ResetPasswordRequest{Email: "reset@example.com", Code: code, NewPassword: "brand-new-pass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "reset@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "reset@example.com", "brand-new-pass")
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, ResetPasswordRequest{Email: "reset@example.com", Code: code, NewPassword: "another-pass"})
	assert.ErrorIs(t, err, ErrInvalidOTP, "codes are single use")
}

func TestService_LoginWithOTP_VerifiesEmail(t *testing.T) {
	svc, mailer, _ := setupTestService(t, 0)
	ctx := context.Background()
	registerGuest(t, svc, "otp@example.com")

	require.NoError(t, svc.RequestLoginOTP(ctx, "otp@example.com"))
	result, err := svc.LoginWithOTP(ctx, "otp@example.com", mailer.code(PurposeLogin, "otp@example.com"))
	require.NoError(t, err)
	assert.True(t, result.User.EmailVerified)

	me, err := svc.Me(ctx, result.User.ID)
	require.NoError(t, err)
	assert.True(t, me.EmailVerified)
}

func TestService_Login_Banned(t *testing.T) {
	svc, _, db := setupTestService(t, 0)
	u := registerGuest(t, svc, "banned@example.com")
	require.NoError(t, db.Model(&User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"email_verified": true,
		"is_banned":      true,
	}).Error)

	_, err := svc.Login(context.Background(), "banned@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrAccountBanned)
}

func TestService_ChangePasswordAndProfile(t *testing.T) {
	svc, _, _ := setupTestService(t, 0)
	ctx := context.Background()
	u := registerGuest(t, svc, "profile@example.com")

	err := svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{CurrentPassword: "correct-horse", NewPassword: "correct-horse"})
	assert.ErrorIs(t, err, ErrSamePassword)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{CurrentPassword: "correct-horse", NewPassword: "new-password"}))

	name := "Renamed"
	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	_, err = svc.UpdateProfile(ctx, 9999, UpdateProfileRequest{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
