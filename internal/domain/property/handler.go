package property

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

// Search godoc
// @Summary		Search live properties
// @Tags		Properties
// @Produce		json
// @Param		q				query	string	false	"free text"
// @Param		city			query	string	false	"city"
// @Param		country			query	string	false	"country"
// @Param		type			query	string	false	"APARTMENT, HOUSE, VILLA, CABIN, ROOM, OTHER"
// @Param		minPrice		query	number	false	"minimum nightly price"
// @Param		maxPrice		query	number	false	"maximum nightly price"
// @Param		guests			query	int		false	"guest count"
// @Param		amenities		query	string	false	"comma separated"
// @Param		checkIn			query	string	false	"YYYY-MM-DD"
// @Param		checkOut		query	string	false	"YYYY-MM-DD"
// @Param		sort			query	string	false	"newest, price_asc, price_desc, rating"
// @Param		page			query	int		false	"page"
// @Param		limit			query	int		false	"page size"
// @Success		200	{object}	response.Envelope
// @Router		/properties [get]
func (h *Handler) Search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	var p pagination.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}

	items, total, err := h.service.Search(c.Request.Context(), q, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "properties retrieved", items, p, total)
}

// Get godoc
// @Summary		Property details
// @Tags		Properties
// @Produce		json
// @Param		id	path	int	true	"property id"
// @Success		200	{object}	response.Envelope
// @Failure		404	{object}	response.Envelope
// @Router		/properties/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	userID, role, _ := middleware.CurrentUser(c)

	p, err := h.service.Get(c.Request.Context(), id, userID, role == middleware.RoleAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "property retrieved", p)
}

func (h *Handler) ListMine(c *gin.Context) {
	var p pagination.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}
	ownerID, _, _ := middleware.CurrentUser(c)

	items, total, err := h.service.ListByOwner(c.Request.Context(), ownerID, c.Query("status"), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "properties retrieved", items, p, total)
}

// Create godoc
// @Summary		Submit a property for review
// @Tags		Properties
// @Security	BearerAuth
// @Accept		json
// @Produce		json
// @Param		body	body	CreatePropertyRequest	true	"listing"
// @Success		201	{object}	response.Envelope
// @Failure		403	{object}	response.Envelope	"subscription does not allow another listing"
// @Router		/properties [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	ownerID, role, _ := middleware.CurrentUser(c)

	p, err := h.service.Create(c.Request.Context(), ownerID, role == middleware.RoleAdmin, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "property submitted for review", p)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	userID, role, _ := middleware.CurrentUser(c)

	p, err := h.service.Update(c.Request.Context(), id, userID, role == middleware.RoleAdmin, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "property updated", p)
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
	response.OK(c, "property deleted", nil)
}
