package media

import "staysphere/internal/pkg/apperr"

var (
	ErrObjectNotFound  = apperr.New(apperr.KindNotFound, "MEDIA_NOT_FOUND", "media object not found")
	ErrNotOwner        = apperr.New(apperr.KindForbidden, "NOT_MEDIA_OWNER", "you do not own this media object")
	ErrFileTooLarge    = apperr.New(apperr.KindValidation, "FILE_TOO_LARGE", "file exceeds the 10MB limit")
	ErrUnsupportedType = apperr.New(apperr.KindValidation, "UNSUPPORTED_TYPE", "only jpeg, png, webp and gif images are accepted")
	ErrEmptyFile       = apperr.New(apperr.KindValidation, "EMPTY_FILE", "file is empty")
)
