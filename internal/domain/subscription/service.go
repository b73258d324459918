package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyCounter counts listings that occupy a quota slot.
type PropertyCounter interface {
	CountActiveByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// Service handles subscription business logic
type Service struct {
	repo       Repository
	properties PropertyCounter
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, properties PropertyCounter, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		properties: properties,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ListPlans returns plans visible to owners. Admins may include inactive ones.
func (s *Service) ListPlans(ctx context.Context, includeInactive bool) ([]Plan, error) {
	return s.repo.ListPlans(ctx, includeInactive)
}

func (s *Service) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	plan := &Plan{
		Type:          strings.ToUpper(strings.TrimSpace(req.Type)),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		DurationDays:  req.DurationDays,
		MaxProperties: req.MaxProperties,
		IsActive:      true,
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlan changes plan terms. Existing subscriptions keep the quota they were sold.
func (s *Service) UpdatePlan(ctx context.Context, id int64, req UpdatePlanRequest) (*Plan, error) {
	plan, err := s.repo.GetPlanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		plan.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.DurationDays != nil {
		plan.DurationDays = *req.DurationDays
	}
	if req.MaxProperties != nil {
		plan.MaxProperties = *req.MaxProperties
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// CreateSubscription starts a subscription for ownerID on planID.
func (s *Service) CreateSubscription(ctx context.Context, ownerID, planID int64, paid bool) (*Subscription, error) {
	var sub *Subscription
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockOwner(ctx, ownerID); err != nil {
			return fmt.Errorf("lock owner %d: %w", ownerID, err)
		}

		plan, err := s.repo.GetPlanByID(ctx, planID)
		if err != nil {
			return err
		}
		if !plan.IsActive {
			return ErrPlanInactive
		}

		current, err := s.repo.GetActiveByOwnerID(ctx, ownerID)
		if err != nil {
			return err
		}
		if current != nil {
			return ErrAlreadySubscribed
		}

		now := s.now()
		sub = &Subscription{
			ID:            uuid.NewString(),
			OwnerID:       ownerID,
			PlanID:        plan.ID,
			MaxProperties: plan.MaxProperties,
			IsActive:      true,
			Paid:          paid,
			StartedAt:     now,
			ExpiresAt:     now.AddDate(0, 0, plan.DurationDays),
		}
		return s.repo.Create(ctx, sub)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription created",
		zap.String("subscription_id", sub.ID),
		zap.Int64("owner_id", ownerID),
		zap.Int64("plan_id", planID),
		zap.Bool("paid", paid),
	)
	return sub, nil
}

// Subscribe is the owner-facing entry point. Free plans start paid.
func (s *Service) Subscribe(ctx context.Context, ownerID, planID int64) (*Subscription, error) {
	plan, err := s.repo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	return s.CreateSubscription(ctx, ownerID, planID, plan.Price == 0)
}

// ChangeSubscriptionPlan cancels the owner's active subscription and opens a
// new one on planID. Both steps commit together or not at all.
func (s *Service) ChangeSubscriptionPlan(ctx context.Context, ownerID, planID int64) (*Subscription, error) {
	var sub *Subscription
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockOwner(ctx, ownerID); err != nil {
			return fmt.Errorf("lock owner %d: %w", ownerID, err)
		}

		current, err := s.repo.GetActiveByOwnerID(ctx, ownerID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrNoActiveSubscription
		}
		if current.PlanID == planID {
			return ErrSamePlan
		}

		plan, err := s.repo.GetPlanByID(ctx, planID)
		if err != nil {
			return err
		}

		if err := s.repo.Cancel(ctx, current.ID, s.now()); err != nil {
			return err
		}
		sub, err = s.CreateSubscription(ctx, ownerID, planID, plan.Price == 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// CancelSubscription deactivates a subscription. Owners may only cancel their own.
// Cancelling twice is harmless; the timestamp moves forward.
func (s *Service) CancelSubscription(ctx context.Context, id string, callerID int64, isAdmin bool) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && sub.OwnerID != callerID {
		return nil, ErrNotSubscriptionOwner
	}

	now := s.now()
	if err := s.repo.Cancel(ctx, id, now); err != nil {
		return nil, err
	}
	sub.IsActive = false
	sub.CancelledAt = &now

	s.logger.Info("subscription cancelled", zap.String("subscription_id", id), zap.Int64("owner_id", sub.OwnerID))
	return sub, nil
}

// MarkPaid records payment for a subscription.
func (s *Service) MarkPaid(ctx context.Context, id string) (*Subscription, error) {
	if err := s.repo.MarkPaid(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// CanListProperty reports whether ownerID may submit another listing.
func (s *Service) CanListProperty(ctx context.Context, ownerID int64) (*Entitlement, error) {
	sub, err := s.repo.GetActiveByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &Entitlement{Allowed: false, Reason: ReasonNoSubscription}, nil
	}
	if !sub.Paid {
		return &Entitlement{Allowed: false, Reason: ReasonUnpaid}, nil
	}
	if sub.IsExpired(s.now()) {
		return &Entitlement{Allowed: false, Reason: ReasonExpired}, nil
	}

	used, err := s.properties.CountActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	remaining := sub.MaxProperties - int(used)
	if remaining <= 0 {
		zero := 0
		return &Entitlement{Allowed: false, Reason: ReasonLimitReached, Remaining: &zero}, nil
	}
	return &Entitlement{Allowed: true, Remaining: &remaining}, nil
}

// GetMySubscription returns the owner's active subscription with its plan and quota.
func (s *Service) GetMySubscription(ctx context.Context, ownerID int64) (*SubscriptionView, error) {
	sub, err := s.repo.GetActiveByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoActiveSubscription
	}

	plan, err := s.repo.GetPlanByID(ctx, sub.PlanID)
	if err != nil && !errors.Is(err, ErrPlanNotFound) {
		return nil, err
	}
	ent, err := s.CanListProperty(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &SubscriptionView{
		Subscription:  sub,
		Plan:          plan,
		DaysRemaining: sub.DaysRemaining(s.now()),
		Entitlement:   ent,
	}, nil
}

// CheckExpiredSubscriptions deactivates every active subscription past its
// expiry. One failing row does not stop the sweep.
func (s *Service) CheckExpiredSubscriptions(ctx context.Context) (int, error) {
	expired, err := s.repo.ListExpiredActive(ctx, s.now())
	if err != nil {
		return 0, err
	}

	var (
		deactivated int
		errs        []error
	)
	for _, sub := range expired {
		if err := s.repo.Deactivate(ctx, sub.ID); err != nil {
			s.logger.Error("failed to expire subscription", zap.String("subscription_id", sub.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("subscription %s: %w", sub.ID, err))
			continue
		}
		deactivated++
	}

	if deactivated > 0 {
		s.logger.Info("expired subscriptions deactivated", zap.Int("count", deactivated))
	}
	return deactivated, errors.Join(errs...)
}
