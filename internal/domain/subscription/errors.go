package subscription

import "staysphere/internal/pkg/apperr"

var (
	ErrPlanNotFound         = apperr.New(apperr.KindNotFound, "PLAN_NOT_FOUND", "subscription plan not found")
	ErrPlanInactive         = apperr.New(apperr.KindInvalidState, "PLAN_INACTIVE", "subscription plan is not available")
	ErrPlanTypeTaken        = apperr.New(apperr.KindConflict, "PLAN_TYPE_TAKEN", "a plan with this type already exists")
	ErrSubscriptionNotFound = apperr.New(apperr.KindNotFound, "SUBSCRIPTION_NOT_FOUND", "subscription not found")
	ErrNoActiveSubscription = apperr.New(apperr.KindNotFound, "NO_ACTIVE_SUBSCRIPTION", "no active subscription")
	ErrAlreadySubscribed    = apperr.New(apperr.KindConflict, "ALREADY_SUBSCRIBED", "owner already has an active subscription")
	ErrSamePlan             = apperr.New(apperr.KindConflict, "SAME_PLAN", "already subscribed to this plan")
	ErrNotSubscriptionOwner = apperr.New(apperr.KindForbidden, "NOT_SUBSCRIPTION_OWNER", "subscription belongs to another owner")
)

// Reasons reported by CanListProperty.
const (
	ReasonNoSubscription = "no active subscription"
	ReasonUnpaid         = "subscription payment is pending"
	ReasonExpired        = "subscription has expired"
	ReasonLimitReached   = "property limit reached for current plan"
)
