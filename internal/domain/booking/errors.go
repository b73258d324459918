package booking

import "staysphere/internal/pkg/apperr"

var (
	ErrBookingNotFound      = apperr.New(apperr.KindNotFound, "BOOKING_NOT_FOUND", "booking not found")
	ErrPropertyNotFound     = apperr.New(apperr.KindNotFound, "PROPERTY_NOT_FOUND", "property not found")
	ErrPropertyNotBookable  = apperr.New(apperr.KindInvalidState, "PROPERTY_NOT_BOOKABLE", "property is not accepting bookings")
	ErrTooManyGuests        = apperr.New(apperr.KindPolicyViolation, "TOO_MANY_GUESTS", "guest count exceeds the property maximum")
	ErrDatesUnavailable     = apperr.New(apperr.KindConflict, "DATES_UNAVAILABLE", "the property is already booked for these dates")
	ErrOwnProperty          = apperr.New(apperr.KindForbidden, "OWN_PROPERTY", "owners cannot book their own property")
	ErrNotBookingParty      = apperr.New(apperr.KindForbidden, "NOT_BOOKING_PARTY", "you are not allowed to access this booking")
	ErrInvalidTransition    = apperr.New(apperr.KindInvalidState, "INVALID_STATUS_TRANSITION", "booking status does not allow this action")
	ErrDatesLocked          = apperr.New(apperr.KindInvalidState, "DATES_LOCKED", "dates can only change while the booking is pending")
	ErrStayNotFinished      = apperr.New(apperr.KindInvalidState, "STAY_NOT_FINISHED", "the stay has not ended yet")
	ErrAlreadyPaid          = apperr.New(apperr.KindConflict, "ALREADY_PAID", "booking is already paid")
	ErrBookingChanged       = apperr.New(apperr.KindConflict, "BOOKING_CHANGED", "booking was modified concurrently, retry")
	ErrStartInPast          = apperr.New(apperr.KindValidation, "START_IN_PAST", "startDate must be in the future")
	ErrInvalidDateRange     = apperr.New(apperr.KindValidation, "INVALID_DATE_RANGE", "endDate must be after startDate")
	ErrInvalidBookingStatus = apperr.New(apperr.KindValidation, "INVALID_STATUS", "unknown booking status")
)
