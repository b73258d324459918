package property

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"staysphere/internal/domain/subscription"
	"staysphere/internal/pkg/apperr"
	"staysphere/internal/pkg/dates"
	"staysphere/internal/pkg/pagination"

	"go.uber.org/zap"
)

// ListingGate decides whether an owner may submit another listing.
type ListingGate interface {
	CanListProperty(ctx context.Context, ownerID int64) (*subscription.Entitlement, error)
}

// BookingGuard reports reservations that keep a listing from being removed.
type BookingGuard interface {
	HasUpcomingBookings(ctx context.Context, propertyID int64, now time.Time) (bool, error)
}

type Service struct {
	repo     Repository
	gate     ListingGate
	bookings BookingGuard
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, gate ListingGate, bookings BookingGuard, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		gate:     gate,
		bookings: bookings,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create submits a listing for review. The quota check and the insert run in
// one transaction holding the owner's row lock. Admins skip the quota.
func (s *Service) Create(ctx context.Context, ownerID int64, isAdmin bool, req CreatePropertyRequest) (*Property, error) {
	p := &Property{
		OwnerID:        ownerID,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Type:           req.Type,
		Address:        strings.TrimSpace(req.Address),
		City:           strings.TrimSpace(req.City),
		Country:        strings.TrimSpace(req.Country),
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Price:          roundCents(req.Price),
		MaxGuests:      req.MaxGuests,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		Amenities:      cleanList(req.Amenities),
		Images:         cleanList(req.Images),
		InstantBooking: req.InstantBooking,
		Status:         StatusPending,
	}

	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockOwner(ctx, ownerID); err != nil {
			return fmt.Errorf("lock owner %d: %w", ownerID, err)
		}
		if !isAdmin {
			ent, err := s.gate.CanListProperty(ctx, ownerID)
			if err != nil {
				return err
			}
			if !ent.Allowed {
				return apperr.Wrap(apperr.KindForbidden, ErrListingNotAllowed.Code, ent.Reason, ErrListingNotAllowed)
			}
		}
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("property submitted", zap.Int64("property_id", p.ID), zap.Int64("owner_id", ownerID))
	return p, nil
}

// Get returns a listing. Non-LIVE listings are visible to their owner and admins only.
func (s *Service) Get(ctx context.Context, id, callerID int64, isAdmin bool) (*Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusLive && !isAdmin && p.OwnerID != callerID {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

// GetByID loads a listing regardless of status.
func (s *Service) GetByID(ctx context.Context, id int64) (*Property, error) {
	return s.repo.GetByID(ctx, id)
}

// Update edits a listing. An owner's edit sends a REJECTED listing back to review.
func (s *Service) Update(ctx context.Context, id, callerID int64, isAdmin bool, req UpdatePropertyRequest) (*Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && p.OwnerID != callerID {
		return nil, ErrNotPropertyOwner
	}

	applyUpdate(p, req)
	if p.Status == StatusRejected && p.OwnerID == callerID {
		p.Status = StatusPending
		p.RejectionReason = ""
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func applyUpdate(p *Property, req UpdatePropertyRequest) {
	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Type != nil {
		p.Type = *req.Type
	}
	if req.Address != nil {
		p.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil && strings.TrimSpace(*req.City) != "" {
		p.City = strings.TrimSpace(*req.City)
	}
	if req.Country != nil && strings.TrimSpace(*req.Country) != "" {
		p.Country = strings.TrimSpace(*req.Country)
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
	if req.Price != nil {
		p.Price = roundCents(*req.Price)
	}
	if req.MaxGuests != nil {
		p.MaxGuests = *req.MaxGuests
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if req.Amenities != nil {
		p.Amenities = cleanList(*req.Amenities)
	}
	if req.Images != nil {
		p.Images = cleanList(*req.Images)
	}
	if req.InstantBooking != nil {
		p.InstantBooking = *req.InstantBooking
	}
}

// Delete soft deletes a listing unless guests still hold upcoming reservations.
func (s *Service) Delete(ctx context.Context, id, callerID int64, isAdmin bool) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && p.OwnerID != callerID {
		return ErrNotPropertyOwner
	}

	upcoming, err := s.bookings.HasUpcomingBookings(ctx, id, s.now())
	if err != nil {
		return err
	}
	if upcoming {
		return ErrHasActiveBookings
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("property deleted", zap.Int64("property_id", id), zap.Int64("by", callerID))
	return nil
}

// Search lists LIVE properties matching q.
func (s *Service) Search(ctx context.Context, q SearchQuery, params pagination.Params) ([]Property, int64, error) {
	f, err := q.toFilter()
	if err != nil {
		return nil, 0, err
	}
	f.Statuses = []Status{StatusLive}
	return s.repo.Search(ctx, f, params)
}

// ListByOwner lists an owner's listings, optionally narrowed to one status.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64, status string, params pagination.Params) ([]Property, int64, error) {
	f := Filter{OwnerID: ownerID}
	if status != "" {
		st := Status(strings.ToUpper(status))
		if !st.Valid() {
			return nil, 0, ErrInvalidStatus
		}
		f.Statuses = []Status{st}
	}
	return s.repo.Search(ctx, f, params)
}

// ListByStatus is the moderation queue. An empty status means PENDING.
func (s *Service) ListByStatus(ctx context.Context, status string, params pagination.Params) ([]Property, int64, error) {
	st := StatusPending
	if status != "" {
		st = Status(strings.ToUpper(status))
		if !st.Valid() {
			return nil, 0, ErrInvalidStatus
		}
	}
	return s.repo.Search(ctx, Filter{Statuses: []Status{st}, Sort: "oldest"}, params)
}

func (s *Service) Approve(ctx context.Context, id int64) (*Property, error) {
	return s.transition(ctx, id, []Status{StatusPending, StatusSuspended}, StatusLive, "")
}

func (s *Service) Reject(ctx context.Context, id int64, reason string) (*Property, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrRejectionReasonReq
	}
	return s.transition(ctx, id, []Status{StatusPending}, StatusRejected, reason)
}

func (s *Service) Suspend(ctx context.Context, id int64) (*Property, error) {
	return s.transition(ctx, id, []Status{StatusLive}, StatusSuspended, "")
}

func (s *Service) transition(ctx context.Context, id int64, from []Status, to Status, reason string) (*Property, error) {
	if err := s.repo.TransitionStatus(ctx, id, from, to, reason); err != nil {
		return nil, err
	}
	s.logger.Info("property status changed", zap.Int64("property_id", id), zap.String("status", string(to)))
	return s.repo.GetByID(ctx, id)
}

// UpdateRating stores a recomputed review aggregate.
func (s *Service) UpdateRating(ctx context.Context, id int64, average float64, count int) error {
	return s.repo.UpdateRating(ctx, id, average, count)
}

func (s *Service) SetCalendarFeeds(ctx context.Context, id int64, feeds []string) error {
	return s.repo.SetCalendarFeeds(ctx, id, feeds)
}

func (q SearchQuery) toFilter() (Filter, error) {
	f := Filter{
		Query:          q.Q,
		City:           q.City,
		Country:        q.Country,
		Type:           Type(strings.ToUpper(strings.TrimSpace(q.Type))),
		MinPrice:       q.MinPrice,
		MaxPrice:       q.MaxPrice,
		Guests:         q.Guests,
		Bedrooms:       q.Bedrooms,
		InstantBooking: q.InstantBooking,
		Sort:           q.Sort,
	}
	for _, a := range q.Amenities {
		// ?amenities=wifi,pool and ?amenities=wifi&amenities=pool are both accepted
		f.Amenities = append(f.Amenities, cleanList(strings.Split(a, ","))...)
	}

	if q.CheckIn == "" && q.CheckOut == "" {
		return f, nil
	}
	if q.CheckIn == "" || q.CheckOut == "" {
		return f, apperr.Validation("checkIn and checkOut go together", map[string]string{"checkIn": "required_with", "checkOut": "required_with"})
	}
	in, err := dates.Parse(q.CheckIn)
	if err != nil {
		return f, apperr.Validation(err.Error(), map[string]string{"checkIn": "date"})
	}
	out, err := dates.Parse(q.CheckOut)
	if err != nil {
		return f, apperr.Validation(err.Error(), map[string]string{"checkOut": "date"})
	}
	if !out.After(in) {
		return f, ErrInvalidDateRange
	}
	f.CheckIn, f.CheckOut = &in, &out
	return f, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
