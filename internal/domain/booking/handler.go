package booking

import (
	"staysphere/internal/middleware"
	"staysphere/internal/pkg/pagination"
	"staysphere/internal/pkg/params"
	"staysphere/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateBooking godoc
// @Summary		Request or instantly book a stay
// @Description	Dates are half-open: the guest leaves on endDate, which stays bookable.
// @Tags		Bookings
// @Security	BearerAuth
// @Accept		json
// @Produce		json
// @Param		body	body	CreateBookingRequest	true	"stay"
// @Success		201	{object}	response.Envelope
// @Failure		404	{object}	response.Envelope	"property not found"
// @Failure		409	{object}	response.Envelope	"dates taken or property not LIVE"
// @Failure		422	{object}	response.Envelope	"too many guests"
// @Router		/bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	userID, _, _ := middleware.CurrentUser(c)

	b, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg := "booking requested"
	if b.Status == StatusConfirmed {
		msg = "booking confirmed"
	}
	response.Created(c, msg, b)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	userID, role, _ := middleware.CurrentUser(c)

	b, err := h.service.Get(c.Request.Context(), id, userID, role == middleware.RoleAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "booking retrieved", b)
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	var p pagination.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}
	userID, _, _ := middleware.CurrentUser(c)

	items, total, err := h.service.ListMine(c.Request.Context(), userID, c.Query("status"), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "bookings retrieved", items, p, total)
}

func (h *Handler) GetOwnerBookings(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	var p pagination.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}
	ownerID, _, _ := middleware.CurrentUser(c)

	items, total, err := h.service.ListForOwner(c.Request.Context(), ownerID, q, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "bookings retrieved", items, p, total)
}

// UpdateDates godoc
// @Summary		Change the dates of a pending booking
// @Tags		Bookings
// @Security	BearerAuth
// @Accept		json
// @Produce		json
// @Param		id		path	int					true	"booking id"
// @Param		body	body	UpdateDatesRequest	true	"new dates"
// @Success		200	{object}	response.Envelope
// @Router		/bookings/{id}/dates [patch]
func (h *Handler) UpdateDates(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req UpdateDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	userID, _, _ := middleware.CurrentUser(c)

	b, err := h.service.UpdateDates(c.Request.Context(), id, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "booking dates updated", b)
}

// CancelBooking godoc
// @Summary		Cancel a booking
// @Description	Paid bookings are refunded on a best-effort basis; see data.refund.
// @Tags		Bookings
// @Security	BearerAuth
// @Accept		json
// @Produce		json
// @Param		id		path	int				true	"booking id"
// @Param		body	body	CancelRequest	false	"reason"
// @Success		200	{object}	response.Envelope
// @Router		/bookings/{id}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}
	userID, role, _ := middleware.CurrentUser(c)

	out, err := h.service.Cancel(c.Request.Context(), id, userID, role == middleware.RoleAdmin, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "booking cancelled", newCancelResponse(out))
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	userID, role, _ := middleware.CurrentUser(c)

	b, err := h.service.Confirm(c.Request.Context(), id, userID, role == middleware.RoleAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "booking confirmed", b)
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	userID, role, _ := middleware.CurrentUser(c)

	b, err := h.service.Complete(c.Request.Context(), id, userID, role == middleware.RoleAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "booking completed", b)
}

func (h *Handler) MarkBookingPaid(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}
	userID, role, _ := middleware.CurrentUser(c)

	b, err := h.service.MarkPaid(c.Request.Context(), id, userID, role == middleware.RoleAdmin, req.Reference)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "payment recorded", b)
}

// GetAvailability godoc
// @Summary		Booked windows of a property
// @Tags		Bookings
// @Produce		json
// @Param		id		path	int		true	"property id"
// @Param		from	query	string	true	"YYYY-MM-DD"
// @Param		to		query	string	true	"YYYY-MM-DD"
// @Success		200	{object}	response.Envelope
// @Router		/properties/{id}/availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var q AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	windows, err := h.service.Availability(c.Request.Context(), id, q.From, q.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "availability retrieved", windows)
}
