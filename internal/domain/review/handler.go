package review

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

// GetByProperty godoc
// @Summary		Reviews of a property with its rating summary
// @Tags		Reviews
// @Produce		json
// @Param		id		path	int	true	"property id"
// @Param		page	query	int	false	"page"
// @Param		limit	query	int	false	"page size"
// @Success		200	{object}	response.Envelope
// @Router		/properties/{id}/reviews [get]
func (h *Handler) GetByProperty(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var p pagination.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := h.service.ListByProperty(c.Request.Context(), id, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "reviews retrieved", page)
}

// Create godoc
// @Summary		Review a property
// @Tags		Reviews
// @Security	BearerAuth
// @Accept		json
// @Produce		json
// @Param		body	body	CreateReviewRequest	true	"review"
// @Success		201	{object}	response.Envelope
// @Failure		409	{object}	response.Envelope	"already reviewed"
// @Router		/reviews [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	userID, _, _ := middleware.CurrentUser(c)

	rv, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "review created", rv)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	userID, _, _ := middleware.CurrentUser(c)

	rv, err := h.service.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "review updated", rv)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	userID, role, _ := middleware.CurrentUser(c)

	if err := h.service.Delete(c.Request.Context(), id, userID, role == middleware.RoleAdmin); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "review deleted", nil)
}

// AddOwnerResponse lets the property owner answer a review publicly.
func (h *Handler) AddOwnerResponse(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	userID, role, _ := middleware.CurrentUser(c)

	rv, err := h.service.Respond(c.Request.Context(), id, userID, role == middleware.RoleAdmin, req.Response)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "response saved", rv)
}
