package booking

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether a booking in this status holds its dates.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// activeStatuses is the set that participates in overlap checks.
var activeStatuses = []Status{StatusPending, StatusConfirmed}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// Booking is a reservation of [StartDate, EndDate) on a property.
type Booking struct {
	ID                 int64         `gorm:"primaryKey" json:"id"`
	PropertyID         int64         `gorm:"not null;index:idx_bookings_property_dates,priority:1" json:"propertyId"`
	UserID             int64         `gorm:"not null;index" json:"userId"`
	StartDate          time.Time     `gorm:"not null;index:idx_bookings_property_dates,priority:2" json:"startDate"`
	EndDate            time.Time     `gorm:"not null" json:"endDate"`
	Nights             int           `gorm:"not null" json:"nights"`
	Guests             int           `gorm:"not null" json:"guests"`
	Amount             float64       `gorm:"not null" json:"amount"`
	Status             Status        `gorm:"size:16;not null;index" json:"status"`
	PaymentStatus      PaymentStatus `gorm:"size:16;not null" json:"paymentStatus"`
	Notes              string        `gorm:"type:text" json:"notes,omitempty"`
	CancellationReason string        `gorm:"type:text" json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time    `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

func (Booking) TableName() string { return "bookings" }

// Payment records money received for a booking.
type Payment struct {
	ID         int64         `gorm:"primaryKey" json:"id"`
	BookingID  int64         `gorm:"not null;uniqueIndex" json:"bookingId"`
	Amount     float64       `gorm:"not null" json:"amount"`
	Status     PaymentStatus `gorm:"size:16;not null" json:"status"`
	Reference  string        `gorm:"size:120" json:"reference,omitempty"`
	PaidAt     *time.Time    `json:"paidAt,omitempty"`
	RefundedAt *time.Time    `json:"refundedAt,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func (Payment) TableName() string { return "payments" }

// Window is a span of nights held by an active booking.
type Window struct {
	BookingID int64     `json:"bookingId"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    Status    `json:"status"`
}

// SecondaryResult reports a best-effort side effect that ran after the
// primary write committed. Err is nil when the effect succeeded or was skipped.
type SecondaryResult struct {
	Attempted bool
	Err       error
}

// CancelOutcome is the result of a committed cancellation.
type CancelOutcome struct {
	Booking *Booking
	Refund  SecondaryResult
}
