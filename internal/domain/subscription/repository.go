package subscription

import (
	"context"
	"errors"
	"time"

	"staysphere/internal/database"

	"gorm.io/gorm"
)

// Repository handles persistence for subscription data
type Repository interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	LockOwner(ctx context.Context, ownerID int64) error

	// Plans
	ListPlans(ctx context.Context, includeInactive bool) ([]Plan, error)
	GetPlanByID(ctx context.Context, id int64) (*Plan, error)
	CreatePlan(ctx context.Context, plan *Plan) error
	UpdatePlan(ctx context.Context, plan *Plan) error

	// Subscriptions
	GetActiveByOwnerID(ctx context.Context, ownerID int64) (*Subscription, error)
	GetByID(ctx context.Context, id string) (*Subscription, error)
	Create(ctx context.Context, sub *Subscription) error
	Cancel(ctx context.Context, id string, at time.Time) error
	MarkPaid(ctx context.Context, id string) error
	ListExpiredActive(ctx context.Context, now time.Time) ([]Subscription, error)
	Deactivate(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.Transaction(ctx, r.db, fn)
}

func (r *repository) LockOwner(ctx context.Context, ownerID int64) error {
	return database.LockRow(ctx, r.db, "users", ownerID)
}

func (r *repository) ListPlans(ctx context.Context, includeInactive bool) ([]Plan, error) {
	var plans []Plan
	q := database.Conn(ctx, r.db).Order("price ASC, id ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&plans).Error
	return plans, err
}

func (r *repository) GetPlanByID(ctx context.Context, id int64) (*Plan, error) {
	var plan Plan
	if err := database.Conn(ctx, r.db).First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repository) CreatePlan(ctx context.Context, plan *Plan) error {
	if err := database.Conn(ctx, r.db).Create(plan).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrPlanTypeTaken
		}
		return err
	}
	return nil
}

func (r *repository) UpdatePlan(ctx context.Context, plan *Plan) error {
	return database.Conn(ctx, r.db).Save(plan).Error
}

// GetActiveByOwnerID returns nil, nil when the owner has no active subscription.
func (r *repository) GetActiveByOwnerID(ctx context.Context, ownerID int64) (*Subscription, error) {
	var sub Subscription
	err := database.Conn(ctx, r.db).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Subscription, error) {
	var sub Subscription
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) Create(ctx context.Context, sub *Subscription) error {
	if err := database.Conn(ctx, r.db).Create(sub).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadySubscribed
		}
		return err
	}
	return nil
}

func (r *repository) Cancel(ctx context.Context, id string, at time.Time) error {
	res := database.Conn(ctx, r.db).
		Model(&Subscription{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":    false,
			"cancelled_at": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *repository) MarkPaid(ctx context.Context, id string) error {
	res := database.Conn(ctx, r.db).
		Model(&Subscription{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"paid":       true,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *repository) ListExpiredActive(ctx context.Context, now time.Time) ([]Subscription, error) {
	var subs []Subscription
	err := database.Conn(ctx, r.db).
		Where("is_active = ? AND expires_at < ?", true, now).
		Order("expires_at ASC").
		Find(&subs).Error
	return subs, err
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	return database.Conn(ctx, r.db).
		Model(&Subscription{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		}).Error
}
