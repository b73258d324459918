package calendar

import (
	"fmt"
	"net/http"

	"staysphere/internal/middleware"
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

// GetBusy godoc
// @Summary		Busy windows of a property
// @Description	Bookings plus events imported from external calendars. Defaults to the next 90 days.
// @Tags		Calendar
// @Produce		json
// @Param		id		path	int		true	"property id"
// @Param		from	query	string	false	"YYYY-MM-DD"
// @Param		to		query	string	false	"YYYY-MM-DD"
// @Success		200	{object}	response.Envelope{data=[]Busy}
// @Router		/events/properties/{id} [get]
func (h *Handler) GetBusy(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	spans, err := h.service.BusyWindows(c.Request.Context(), id, q.From, q.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "busy windows retrieved", spans)
}

// ExportICS godoc
// @Summary		Export availability as iCalendar
// @Tags		Calendar
// @Produce		text/calendar
// @Param		id	path	int	true	"property id"
// @Success		200	{string}	string
// @Router		/events/properties/{id}/calendar.ics [get]
func (h *Handler) ExportICS(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	body, err := h.service.Export(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="property-%d.ics"`, id))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *Handler) SetFeeds(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req SetFeedsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	userID, role, _ := middleware.CurrentUser(c)

	res, err := h.service.SetFeeds(c.Request.Context(), id, userID, role == middleware.RoleAdmin, req.URLs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "calendar feeds updated", res)
}

func (h *Handler) Sync(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	userID, role, _ := middleware.CurrentUser(c)

	res, err := h.service.Sync(c.Request.Context(), id, userID, role == middleware.RoleAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "calendar synced", res)
}
