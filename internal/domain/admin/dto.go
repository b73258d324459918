package admin

import "time"

// UserQuery filters the user listing.
type UserQuery struct {
	Role   string `form:"role"`
	Search string `form:"search"`
	Banned *bool  `form:"banned"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=GUEST OWNER ADMIN"`
}

type BanRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type PropertyQuery struct {
	Status string `form:"status"`
}

// Analytics is the platform overview shown on the admin dashboard.
type Analytics struct {
	UsersByRole         map[string]int64 `json:"usersByRole"`
	PropertiesByStatus  map[string]int64 `json:"propertiesByStatus"`
	BookingsByStatus    map[string]int64 `json:"bookingsByStatus"`
	Revenue             float64          `json:"revenue"`
	ActiveSubscriptions int64            `json:"activeSubscriptions"`
	GeneratedAt         time.Time        `json:"generatedAt"`
}
