package admin

import (
	"staysphere/internal/domain/property"
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

// GetProperties godoc
// @Summary		Moderation queue
// @Description	Lists properties in one status, PENDING when omitted, oldest first.
// @Tags		Admin
// @Security	BearerAuth
// @Produce		json
// @Param		status	query	string	false	"PENDING, LIVE, REJECTED, SUSPENDED"
// @Param		page	query	int		false	"page"
// @Param		limit	query	int		false	"page size"
// @Success		200	{object}	response.Envelope
// @Router		/admin/properties [get]
func (h *Handler) GetProperties(c *gin.Context) {
	var q PropertyQuery
	var p pagination.Params
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}

	items, total, err := h.service.ListProperties(c.Request.Context(), q.Status, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "properties retrieved", items, p, total)
}

func (h *Handler) ApproveProperty(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	adminID, _, _ := middleware.CurrentUser(c)

	p, err := h.service.ApproveProperty(c.Request.Context(), adminID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "property approved", p)
}

// RejectProperty godoc
// @Summary		Reject a pending property
// @Tags		Admin
// @Security	BearerAuth
// @Accept		json
// @Produce		json
// @Param		id		path	int						true	"property id"
// @Param		body	body	property.RejectRequest	true	"reason"
// @Success		200	{object}	response.Envelope
// @Failure		409	{object}	response.Envelope	"property is not pending"
// @Router		/admin/properties/{id}/reject [post]
func (h *Handler) RejectProperty(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req property.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	adminID, _, _ := middleware.CurrentUser(c)

	p, err := h.service.RejectProperty(c.Request.Context(), adminID, id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "property rejected", p)
}

func (h *Handler) SuspendProperty(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	adminID, _, _ := middleware.CurrentUser(c)

	p, err := h.service.SuspendProperty(c.Request.Context(), adminID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "property suspended", p)
}

// GetUsers godoc
// @Summary		List users
// @Tags		Admin
// @Security	BearerAuth
// @Produce		json
// @Param		role	query	string	false	"GUEST, OWNER, ADMIN"
// @Param		search	query	string	false	"name or email fragment"
// @Param		banned	query	bool	false	"ban status"
// @Param		page	query	int		false	"page"
// @Param		limit	query	int		false	"page size"
// @Success		200	{object}	response.Envelope
// @Router		/admin/users [get]
func (h *Handler) GetUsers(c *gin.Context) {
	var q UserQuery
	var p pagination.Params
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), q, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "users retrieved", users, p, total)
}

func (h *Handler) ChangeRole(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	adminID, _, _ := middleware.CurrentUser(c)

	u, err := h.service.ChangeRole(c.Request.Context(), adminID, id, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "role updated", u)
}

func (h *Handler) BanUser(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req BanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}
	adminID, _, _ := middleware.CurrentUser(c)

	u, err := h.service.BanUser(c.Request.Context(), adminID, id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "user banned", u)
}

func (h *Handler) UnbanUser(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	adminID, _, _ := middleware.CurrentUser(c)

	u, err := h.service.UnbanUser(c.Request.Context(), adminID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "user unbanned", u)
}

// GetAnalytics godoc
// @Summary		Platform analytics
// @Tags		Admin
// @Security	BearerAuth
// @Produce		json
// @Success		200	{object}	response.Envelope{data=Analytics}
// @Router		/admin/analytics [get]
func (h *Handler) GetAnalytics(c *gin.Context) {
	a, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "analytics retrieved", a)
}
