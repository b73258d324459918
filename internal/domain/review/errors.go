package review

import "staysphere/internal/pkg/apperr"

var (
	ErrReviewNotFound        = apperr.New(apperr.KindNotFound, "REVIEW_NOT_FOUND", "review not found")
	ErrPropertyNotFound      = apperr.New(apperr.KindNotFound, "PROPERTY_NOT_FOUND", "property not found")
	ErrPropertyNotReviewable = apperr.New(apperr.KindInvalidState, "PROPERTY_NOT_REVIEWABLE", "only live properties can be reviewed")
	ErrAlreadyReviewed       = apperr.New(apperr.KindConflict, "ALREADY_REVIEWED", "you have already reviewed this property")
	ErrOwnProperty           = apperr.New(apperr.KindForbidden, "OWN_PROPERTY", "owners cannot review their own property")
	ErrNotReviewAuthor       = apperr.New(apperr.KindForbidden, "NOT_REVIEW_AUTHOR", "you can only change your own review")
	ErrNotPropertyOwner      = apperr.New(apperr.KindForbidden, "NOT_PROPERTY_OWNER", "only the property owner can respond")
)
