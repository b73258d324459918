package auth

import "staysphere/internal/pkg/apperr"

var (
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	ErrEmailAlreadyExists = apperr.New(apperr.KindConflict, "EMAIL_TAKEN", "email already registered")
	ErrEmailNotVerified   = apperr.New(apperr.KindForbidden, "EMAIL_NOT_VERIFIED", "email address is not verified")
	ErrAccountBanned      = apperr.New(apperr.KindForbidden, "ACCOUNT_BANNED", "account is banned")
	ErrRoleNotAllowed     = apperr.New(apperr.KindValidation, "ROLE_NOT_ALLOWED", "role must be GUEST or OWNER")
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrInvalidOTP         = apperr.New(apperr.KindValidation, "INVALID_OTP", "invalid or expired code")
	ErrTooManyAttempts    = apperr.New(apperr.KindRateLimited, "TOO_MANY_ATTEMPTS", "too many invalid attempts, request a new code")
	ErrOTPCooldown        = apperr.New(apperr.KindRateLimited, "OTP_COOLDOWN", "please wait before requesting a new code")
	ErrAlreadyVerified    = apperr.New(apperr.KindConflict, "ALREADY_VERIFIED", "email address is already verified")
	ErrSamePassword       = apperr.New(apperr.KindValidation, "SAME_PASSWORD", "new password must differ from the current one")
)
