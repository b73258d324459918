package subscription

import "time"

// Plan defines a tier available to property owners.
type Plan struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Type          string    `gorm:"size:32;not null;uniqueIndex" json:"type"`
	Name          string    `gorm:"size:120;not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Price         float64   `gorm:"not null" json:"price"`
	DurationDays  int       `gorm:"not null" json:"durationDays"`
	MaxProperties int       `gorm:"not null" json:"maxProperties"`
	IsActive      bool      `gorm:"not null" json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Plan) TableName() string { return "subscription_plans" }

// Subscription tracks a plan held by an owner. At most one row per owner
// has IsActive set; the partial unique index backs that up in the database.
type Subscription struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID       int64      `gorm:"not null;index;uniqueIndex:idx_subscriptions_owner_active,where:is_active = true" json:"ownerId"`
	PlanID        int64      `gorm:"not null;index" json:"planId"`
	MaxProperties int        `gorm:"not null" json:"maxProperties"`
	IsActive      bool       `gorm:"not null;index" json:"isActive"`
	Paid          bool       `gorm:"not null" json:"paid"`
	StartedAt     time.Time  `gorm:"not null" json:"startedAt"`
	ExpiresAt     time.Time  `gorm:"not null;index" json:"expiresAt"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Subscription) TableName() string { return "subscriptions" }

// IsExpired checks if the subscription has passed its expiry date
func (s *Subscription) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Usable reports whether the subscription currently entitles the owner to list.
func (s *Subscription) Usable(now time.Time) bool {
	return s.IsActive && s.Paid && !s.IsExpired(now)
}

// DaysRemaining returns whole days until expiry
func (s *Subscription) DaysRemaining(now time.Time) int {
	remaining := s.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Hours() / 24)
}

// Entitlement answers whether an owner may put another property up for review.
type Entitlement struct {
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
}
