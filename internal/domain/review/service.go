package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"staysphere/internal/domain/property"
	"staysphere/internal/pkg/pagination"

	"go.uber.org/zap"
)

// PropertyStore is the slice of the property service reviews depend on.
type PropertyStore interface {
	GetByID(ctx context.Context, id int64) (*property.Property, error)
	UpdateRating(ctx context.Context, id int64, average float64, count int) error
}

type Service struct {
	repo       Repository
	properties PropertyStore
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, properties PropertyStore, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		properties: properties,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create adds userID's review of a LIVE property and refreshes its aggregate.
func (s *Service) Create(ctx context.Context, userID int64, req CreateReviewRequest) (*Review, error) {
	var rv *Review
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		p, err := s.loadProperty(ctx, req.PropertyID)
		if err != nil {
			return err
		}
		if p.OwnerID == userID {
			return ErrOwnProperty
		}
		if p.Status != property.StatusLive {
			return ErrPropertyNotReviewable
		}

		rv = &Review{
			PropertyID: p.ID,
			UserID:     userID,
			Rating:     req.Rating,
			Comment:    strings.TrimSpace(req.Comment),
		}
		if err := s.repo.Create(ctx, rv); err != nil {
			return err
		}
		return s.refreshAggregate(ctx, p.ID)
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) Update(ctx context.Context, id, userID int64, req UpdateReviewRequest) (*Review, error) {
	var rv *Review
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		var err error
		rv, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if rv.UserID != userID {
			return ErrNotReviewAuthor
		}
		if req.Rating != nil {
			rv.Rating = *req.Rating
		}
		if req.Comment != nil {
			rv.Comment = strings.TrimSpace(*req.Comment)
		}
		if err := s.repo.Save(ctx, rv); err != nil {
			return err
		}
		return s.refreshAggregate(ctx, rv.PropertyID)
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// Delete removes a review. Authors delete their own; admins delete any.
func (s *Service) Delete(ctx context.Context, id, userID int64, isAdmin bool) error {
	return s.repo.Transaction(ctx, func(ctx context.Context) error {
		rv, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !isAdmin && rv.UserID != userID {
			return ErrNotReviewAuthor
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.refreshAggregate(ctx, rv.PropertyID)
	})
}

// Respond stores the property owner's public reply.
func (s *Service) Respond(ctx context.Context, id, ownerID int64, isAdmin bool, text string) (*Review, error) {
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.loadProperty(ctx, rv.PropertyID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && p.OwnerID != ownerID {
		return nil, ErrNotPropertyOwner
	}

	text = strings.TrimSpace(text)
	now := s.now()
	rv.OwnerResponse = &text
	rv.RespondedAt = &now
	if err := s.repo.Save(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// ListByProperty pages through a property's reviews, newest first.
func (s *Service) ListByProperty(ctx context.Context, propertyID int64, params pagination.Params) (*PropertyReviews, error) {
	if _, err := s.loadProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	items, total, err := s.repo.ListByProperty(ctx, propertyID, params)
	if err != nil {
		return nil, err
	}
	summary, err := s.repo.Summarize(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return &PropertyReviews{Page: pagination.NewPage(items, params, total), Summary: summary}, nil
}

func (s *Service) refreshAggregate(ctx context.Context, propertyID int64) error {
	sum, err := s.repo.Summarize(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := s.properties.UpdateRating(ctx, propertyID, sum.AverageRating, sum.ReviewCount); err != nil {
		return err
	}
	s.logger.Debug("property rating refreshed",
		zap.Int64("property_id", propertyID),
		zap.Float64("average", sum.AverageRating),
		zap.Int("count", sum.ReviewCount),
	)
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
