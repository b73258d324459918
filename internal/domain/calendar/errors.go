package calendar

import "staysphere/internal/pkg/apperr"

var (
	ErrPropertyNotFound = apperr.New(apperr.KindNotFound, "PROPERTY_NOT_FOUND", "property not found")
	ErrNotPropertyOwner = apperr.New(apperr.KindForbidden, "NOT_PROPERTY_OWNER", "only the property owner can manage its calendars")
	ErrInvalidFeedURL   = apperr.New(apperr.KindValidation, "INVALID_FEED_URL", "calendar feeds must be absolute http(s) URLs")
	ErrTooManyFeeds     = apperr.New(apperr.KindValidation, "TOO_MANY_FEEDS", "at most 10 calendar feeds per property")
	ErrInvalidRange     = apperr.New(apperr.KindValidation, "INVALID_DATE_RANGE", "to must be after from")
)
