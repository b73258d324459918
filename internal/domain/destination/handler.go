package destination

import (
	"staysphere/internal/domain/property"
	"staysphere/internal/pkg/pagination"
	"staysphere/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary		Popular destinations
// @Description	Cities with live listings, most listings first.
// @Tags		Destinations
// @Produce		json
// @Param		country	query	string	false	"country"
// @Param		q		query	string	false	"city or country fragment"
// @Param		page	query	int		false	"page"
// @Param		limit	query	int		false	"page size"
// @Success		200	{object}	response.Envelope
// @Router		/destinations [get]
func (h *Handler) List(c *gin.Context) {
	var q Query
	var p pagination.Params
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}

	items, total, err := h.service.List(c.Request.Context(), q, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "destinations retrieved", items, p, total)
}

func (h *Handler) Properties(c *gin.Context) {
	var q property.SearchQuery
	var p pagination.Params
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}

	items, total, err := h.service.Properties(c.Request.Context(), c.Param("city"), q, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "properties retrieved", items, p, total)
}
