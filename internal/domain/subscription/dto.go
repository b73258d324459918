package subscription

type SubscribeRequest struct {
	PlanID int64 `json:"planId" binding:"required,gt=0"`
}

type ChangePlanRequest struct {
	PlanID int64 `json:"planId" binding:"required,gt=0"`
}

type CreatePlanRequest struct {
	Type          string  `json:"type" binding:"required,max=32"`
	Name          string  `json:"name" binding:"required,max=120"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"gte=0"`
	DurationDays  int     `json:"durationDays" binding:"required,gt=0"`
	MaxProperties int     `json:"maxProperties" binding:"required,gt=0"`
	IsActive      *bool   `json:"isActive"`
}

type UpdatePlanRequest struct {
	Name          *string  `json:"name" binding:"omitempty,max=120"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price" binding:"omitempty,gte=0"`
	DurationDays  *int     `json:"durationDays" binding:"omitempty,gt=0"`
	MaxProperties *int     `json:"maxProperties" binding:"omitempty,gt=0"`
	IsActive      *bool    `json:"isActive"`
}

// SubscriptionView is the owner-facing summary of the current subscription.
type SubscriptionView struct {
	Subscription  *Subscription `json:"subscription"`
	Plan          *Plan         `json:"plan"`
	DaysRemaining int           `json:"daysRemaining"`
	Entitlement   *Entitlement  `json:"entitlement"`
}
