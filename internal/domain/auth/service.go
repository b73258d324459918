package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
	TTL() time.Duration
}

type Service struct {
	users  UserRepository
	otp    *OTPStore
	mailer Mailer
	tokens TokenIssuer
	logger *zap.Logger
}

func NewService(users UserRepository, otp *OTPStore, mailer Mailer, tokens TokenIssuer, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		otp:    otp,
		mailer: mailer,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates an unverified account and mails a signup code.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	role := req.Role
	if role == "" {
		role = RoleGuest
	}
	if role != RoleGuest && role != RoleOwner {
		return nil, ErrRoleNotAllowed
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	// the account exists either way; the user can ask for a resend
	if err := s.sendCode(ctx, PurposeSignup, u.Email); err != nil {
		s.logger.Warn("signup code not delivered", zap.Int64("user_id", u.ID), zap.Error(err))
	}
	return u, nil
}

// VerifySignup confirms the signup code and signs the user in.
func (s *Service) VerifySignup(ctx context.Context, email, code string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}
	if u.EmailVerified {
		return nil, ErrAlreadyVerified
	}
	if err := s.otp.Verify(ctx, PurposeSignup, u.Email, code); err != nil {
		return nil, err
	}
	if err := s.users.MarkEmailVerified(ctx, u.ID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u.EmailVerified = true
	u.EmailVerifiedAt = &now
	return s.issue(u)
}

// ResendOTP re-sends a code. Unknown emails are accepted silently.
func (s *Service) ResendOTP(ctx context.Context, email string, purpose Purpose) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}
	if purpose == PurposeSignup && u.EmailVerified {
		return ErrAlreadyVerified
	}
	return s.sendCode(ctx, purpose, u.Email)
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPassword(password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	if u.IsBanned {
		return nil, ErrAccountBanned
	}
	if !u.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	return s.issue(u)
}

// RequestLoginOTP mails a passwordless sign-in code.
func (s *Service) RequestLoginOTP(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}
	if u.IsBanned {
		s.logger.Info("login code refused for banned account", zap.Int64("user_id", u.ID))
		return nil
	}
	return s.sendCode(ctx, PurposeLogin, u.Email)
}

// LoginWithOTP signs in with a mailed code. A successful code also proves
// ownership of the mailbox, so the email is marked verified.
func (s *Service) LoginWithOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}
	if err := s.otp.Verify(ctx, PurposeLogin, u.Email, code); err != nil {
		return nil, err
	}
	if u.IsBanned {
		return nil, ErrAccountBanned
	}
	if !u.EmailVerified {
		if err := s.users.MarkEmailVerified(ctx, u.ID); err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		u.EmailVerified = true
		u.EmailVerifiedAt = &now
	}
	return s.issue(u)
}

// ForgotPassword mails a reset code. Unknown emails are accepted silently.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.Debug("password reset for unknown email (masked)")
			return nil
		}
		return err
	}
	return s.sendCode(ctx, PurposeReset, u.Email)
}

func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	if err := s.otp.Verify(ctx, PurposeReset, u.Email, req.Code); err != nil {
		return err
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, u.ID, hash)
}

func (s *Service) Me(ctx context.Context, userID int64) (*User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*User, error) {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if err := s.users.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := CheckPassword(req.CurrentPassword, u.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}
	if req.CurrentPassword == req.NewPassword {
		return ErrSamePassword
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *Service) sendCode(ctx context.Context, purpose Purpose, email string) error {
	code, err := s.otp.Issue(ctx, purpose, email)
	if err != nil {
		return err
	}
	return s.mailer.SendOTP(ctx, email, purpose, code)
}

func (s *Service) issue(u *User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      u,
	}, nil
}
