package booking

type CreateBookingRequest struct {
	PropertyID int64  `json:"propertyId" binding:"required,gt=0"`
	StartDate  string `json:"startDate" binding:"required"`
	EndDate    string `json:"endDate" binding:"required"`
	Guests     int    `json:"guests" binding:"required,gt=0"`
	Notes      string `json:"notes" binding:"max=1000"`
}

type UpdateDatesRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Guests    *int   `json:"guests" binding:"omitempty,gt=0"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

type MarkPaidRequest struct {
	Reference string `json:"reference" binding:"max=120"`
}

type ListQuery struct {
	Status     string `form:"status"`
	PropertyID int64  `form:"propertyId" binding:"gte=0"`
}

type AvailabilityQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// RefundView is the JSON form of a SecondaryResult.
type RefundView struct {
	Attempted bool   `json:"attempted"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

type CancelResponse struct {
	Booking *Booking   `json:"booking"`
	Refund  RefundView `json:"refund"`
}

func newCancelResponse(out *CancelOutcome) CancelResponse {
	view := RefundView{Attempted: out.Refund.Attempted, Succeeded: out.Refund.Attempted && out.Refund.Err == nil}
	if out.Refund.Err != nil {
		view.Error = "refund could not be recorded"
	}
	return CancelResponse{Booking: out.Booking, Refund: view}
}
