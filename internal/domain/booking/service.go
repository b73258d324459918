package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staysphere/internal/domain/property"
	"staysphere/internal/pkg/apperr"
	"staysphere/internal/pkg/dates"
	"staysphere/internal/pkg/pagination"

	"go.uber.org/zap"
)

// PropertyReader loads the listing a booking refers to.
type PropertyReader interface {
	GetByID(ctx context.Context, id int64) (*property.Property, error)
}

type Service struct {
	repo       Repository
	payments   PaymentRepository
	properties PropertyReader
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, payments PaymentRepository, properties PropertyReader, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		payments:   payments,
		properties: properties,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create reserves [startDate, endDate) for userID. The property row lock is
// held from the overlap check until the insert commits.
func (s *Service) Create(ctx context.Context, userID int64, req CreateBookingRequest) (*Booking, error) {
	start, end, err := s.parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var b *Booking
	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockProperty(ctx, req.PropertyID); err != nil {
			return err
		}
		p, err := s.loadProperty(ctx, req.PropertyID)
		if err != nil {
			return err
		}
		if p.OwnerID == userID {
			return ErrOwnProperty
		}
		if err := s.checkAvailability(ctx, p, start, end, req.Guests, 0); err != nil {
			return err
		}

		nights := Nights(start, end)
		b = &Booking{
			PropertyID:    p.ID,
			UserID:        userID,
			StartDate:     start,
			EndDate:       end,
			Nights:        nights,
			Guests:        req.Guests,
			Amount:        Amount(p.Price, nights),
			Status:        StatusPending,
			PaymentStatus: PaymentPending,
			Notes:         strings.TrimSpace(req.Notes),
		}
		if p.InstantBooking {
			b.Status = StatusConfirmed
		}
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("property_id", b.PropertyID),
		zap.Int64("user_id", userID),
		zap.String("status", string(b.Status)),
	)
	return b, nil
}

// checkAvailability applies the acceptance rules in a fixed order so each
// failure surfaces as its own kind.
func (s *Service) checkAvailability(ctx context.Context, p *property.Property, start, end time.Time, guests int, excludeID int64) error {
	if !p.Bookable() {
		return ErrPropertyNotBookable
	}
	if guests > p.MaxGuests {
		return ErrTooManyGuests
	}
	overlap, err := s.repo.HasOverlap(ctx, p.ID, start, end, excludeID)
	if err != nil {
		return err
	}
	if overlap {
		return ErrDatesUnavailable
	}
	return nil
}

// UpdateDates moves a PENDING booking to new dates and reprices it.
func (s *Service) UpdateDates(ctx context.Context, id, userID int64, req UpdateDatesRequest) (*Booking, error) {
	start, end, err := s.parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var b *Booking
	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return ErrNotBookingParty
		}
		if b.Status != StatusPending {
			return ErrDatesLocked
		}

		if err := s.repo.LockProperty(ctx, b.PropertyID); err != nil {
			return err
		}
		p, err := s.loadProperty(ctx, b.PropertyID)
		if err != nil {
			return err
		}

		guests := b.Guests
		if req.Guests != nil {
			guests = *req.Guests
		}
		if err := s.checkAvailability(ctx, p, start, end, guests, b.ID); err != nil {
			return err
		}

		b.StartDate = start
		b.EndDate = end
		b.Guests = guests
		b.Nights = Nights(start, end)
		b.Amount = Amount(p.Price, b.Nights)
		return s.repo.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

const cancelAttempts = 3

// Cancel cancels a PENDING or CONFIRMED booking. A paid booking is refunded
// after the cancellation commits; the refund's failure is reported in the
// outcome and never undoes the cancellation.
//
// The write is conditional on the status and payment status that were read,
// so a payment recorded in between is seen on the next attempt and refunded.
func (s *Service) Cancel(ctx context.Context, id, callerID int64, isAdmin bool, reason string) (*CancelOutcome, error) {
	reason = strings.TrimSpace(reason)
	var b *Booking
	for attempt := 1; ; attempt++ {
		var err error
		b, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.authorize(ctx, b, callerID, isAdmin, true); err != nil {
			return nil, err
		}
		if !b.Status.Active() {
			return nil, ErrInvalidTransition
		}

		now := s.now()
		next := b.PaymentStatus
		if next == PaymentPending {
			next = PaymentCancelled
		}
		err = s.repo.CancelActive(ctx, b.ID, b.PaymentStatus, next, reason, now)
		if errors.Is(err, ErrBookingChanged) && attempt < cancelAttempts {
			continue
		}
		if err != nil {
			return nil, err
		}

		b.Status = StatusCancelled
		b.PaymentStatus = next
		b.CancelledAt = &now
		b.CancellationReason = reason
		break
	}

	out := &CancelOutcome{Booking: b}
	if b.PaymentStatus == PaymentPaid {
		out.Refund = s.refund(ctx, b, *b.CancelledAt)
	}

	s.logger.Info("booking cancelled",
		zap.Int64("booking_id", b.ID),
		zap.Int64("by", callerID),
		zap.Bool("refund_attempted", out.Refund.Attempted),
	)
	return out, nil
}

func (s *Service) refund(ctx context.Context, b *Booking, at time.Time) SecondaryResult {
	res := SecondaryResult{Attempted: true}
	if err := s.payments.MarkRefunded(ctx, b.ID, at); err != nil {
		res.Err = fmt.Errorf("mark payment refunded: %w", err)
	} else if err := s.repo.UpdatePaymentStatus(ctx, b.ID, PaymentRefunded); err != nil {
		res.Err = fmt.Errorf("mark booking refunded: %w", err)
	} else {
		b.PaymentStatus = PaymentRefunded
	}

	if res.Err != nil {
		s.logger.Error("refund after cancellation failed", zap.Int64("booking_id", b.ID), zap.Error(res.Err))
	}
	return res
}

// Confirm accepts a PENDING request. Only the property owner or an admin may confirm.
func (s *Service) Confirm(ctx context.Context, id, callerID int64, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, b, callerID, isAdmin, false); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusPending, StatusConfirmed); err != nil {
		return nil, err
	}
	b.Status = StatusConfirmed
	return b, nil
}

// Complete closes a CONFIRMED stay once its end date has passed.
func (s *Service) Complete(ctx context.Context, id, callerID int64, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, b, callerID, isAdmin, false); err != nil {
		return nil, err
	}
	if b.Status != StatusConfirmed {
		return nil, ErrInvalidTransition
	}
	if b.EndDate.After(s.now()) {
		return nil, ErrStayNotFinished
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusConfirmed, StatusCompleted); err != nil {
		return nil, err
	}
	b.Status = StatusCompleted
	return b, nil
}

// MarkPaid records that the guest paid for an active booking.
func (s *Service) MarkPaid(ctx context.Context, id, callerID int64, isAdmin bool, reference string) (*Booking, error) {
	var b *Booking
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, b, callerID, isAdmin, false); err != nil {
			return err
		}
		if !b.Status.Active() {
			return ErrInvalidTransition
		}
		if b.PaymentStatus == PaymentPaid {
			return ErrAlreadyPaid
		}

		if err := s.repo.SetPaymentStatus(ctx, b.ID, b.PaymentStatus, PaymentPaid); err != nil {
			return err
		}
		if _, err := s.payments.MarkPaid(ctx, b.ID, b.Amount, strings.TrimSpace(reference), s.now()); err != nil {
			return err
		}
		b.PaymentStatus = PaymentPaid
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns a booking to its guest, the property owner, or an admin.
func (s *Service) Get(ctx context.Context, id, callerID int64, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, b, callerID, isAdmin, true); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64, status string, params pagination.Params) ([]Booking, int64, error) {
	st, err := parseStatus(status)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByUser(ctx, userID, st, params)
}

// ListForOwner lists bookings on the caller's properties.
func (s *Service) ListForOwner(ctx context.Context, ownerID int64, q ListQuery, params pagination.Params) ([]Booking, int64, error) {
	st, err := parseStatus(q.Status)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByOwner(ctx, ownerID, st, q.PropertyID, params)
}

// Availability lists the windows held on a property within [from, to).
func (s *Service) Availability(ctx context.Context, propertyID int64, from, to string) ([]Window, error) {
	start, err := dates.Parse(from)
	if err != nil {
		return nil, apperr.Validation(err.Error(), map[string]string{"from": "date"})
	}
	end, err := dates.Parse(to)
	if err != nil {
		return nil, apperr.Validation(err.Error(), map[string]string{"to": "date"})
	}
	if !end.After(start) {
		return nil, ErrInvalidDateRange
	}
	if _, err := s.loadProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.BusyWindows(ctx, propertyID, start, end)
}

// BusyWindows returns active bookings on propertyID intersecting [from, to).
func (s *Service) BusyWindows(ctx context.Context, propertyID int64, from, to time.Time) ([]Window, error) {
	items, err := s.repo.ListActiveInRange(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]Window, 0, len(items))
	for _, b := range items {
		out = append(out, Window{BookingID: b.ID, Start: b.StartDate, End: b.EndDate, Status: b.Status})
	}
	return out, nil
}

// authorize admits admins, the property owner, and (when guestAllowed) the guest.
func (s *Service) authorize(ctx context.Context, b *Booking, callerID int64, isAdmin, guestAllowed bool) error {
	if isAdmin || (guestAllowed && b.UserID == callerID) {
		return nil
	}
	p, err := s.properties.GetByID(ctx, b.PropertyID)
	if err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			return ErrNotBookingParty
		}
		return err
	}
	if p.OwnerID != callerID {
		return ErrNotBookingParty
	}
	return nil
}

func (s *Service) loadProperty(ctx context.Context, id int64) (*property.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) parseRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := dates.Parse(rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation(err.Error(), map[string]string{"startDate": "date"})
	}
	end, err := dates.Parse(rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation(err.Error(), map[string]string{"endDate": "date"})
	}
	if !start.After(s.now()) {
		return time.Time{}, time.Time{}, ErrStartInPast
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return start, end, nil
}

func parseStatus(raw string) (Status, error) {
	if raw == "" {
		return "", nil
	}
	st := Status(strings.ToUpper(raw))
	if !st.Valid() {
		return "", ErrInvalidBookingStatus
	}
	return st, nil
}
