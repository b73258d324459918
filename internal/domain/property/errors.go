package property

import "staysphere/internal/pkg/apperr"

var (
	ErrPropertyNotFound   = apperr.New(apperr.KindNotFound, "PROPERTY_NOT_FOUND", "property not found")
	ErrNotPropertyOwner   = apperr.New(apperr.KindForbidden, "NOT_PROPERTY_OWNER", "you do not own this property")
	ErrListingNotAllowed  = apperr.New(apperr.KindForbidden, "LISTING_NOT_ALLOWED", "your subscription does not allow another listing")
	ErrInvalidTransition  = apperr.New(apperr.KindInvalidState, "INVALID_STATUS_TRANSITION", "property status does not allow this action")
	ErrHasActiveBookings  = apperr.New(apperr.KindConflict, "PROPERTY_HAS_BOOKINGS", "property has upcoming bookings")
	ErrInvalidStatus      = apperr.New(apperr.KindValidation, "INVALID_STATUS", "unknown property status")
	ErrInvalidDateRange   = apperr.New(apperr.KindValidation, "INVALID_DATE_RANGE", "checkOut must be after checkIn")
	ErrRejectionReasonReq = apperr.New(apperr.KindValidation, "REJECTION_REASON_REQUIRED", "a rejection reason is required")
)
