package admin

import "staysphere/internal/pkg/apperr"

var (
	ErrUserNotFound   = apperr.New(apperr.KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrSelfAction     = apperr.New(apperr.KindForbidden, "SELF_ACTION", "admins cannot change their own role or ban status")
	ErrInvalidRole    = apperr.New(apperr.KindValidation, "INVALID_ROLE", "role must be GUEST, OWNER or ADMIN")
	ErrAlreadyBanned  = apperr.New(apperr.KindInvalidState, "ALREADY_BANNED", "user is already banned")
	ErrNotBanned      = apperr.New(apperr.KindInvalidState, "NOT_BANNED", "user is not banned")
	ErrCannotBanAdmin = apperr.New(apperr.KindForbidden, "CANNOT_BAN_ADMIN", "admin accounts cannot be banned")
)
