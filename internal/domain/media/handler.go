package media

import (
	"staysphere/internal/middleware"
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

// RequestUpload godoc
// @Summary		Request a presigned upload URL
// @Description	Accepts jpeg, png, webp and gif up to 10MB. The client PUTs the bytes to uploadUrl.
// @Tags		Media
// @Security	BearerAuth
// @Accept		json
// @Produce		json
// @Param		body	body	UploadRequest	true	"file metadata"
// @Success		201	{object}	response.Envelope{data=UploadTicket}
// @Failure		400	{object}	response.Envelope
// @Router		/media/uploads [post]
func (h *Handler) RequestUpload(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	ownerID, _, _ := middleware.CurrentUser(c)

	ticket, err := h.service.RequestUpload(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "upload url issued", ticket)
}

// GetViewURL godoc
// @Summary		Presigned download URL
// @Tags		Media
// @Produce		json
// @Param		key	query	string	true	"object key"
// @Success		200	{object}	response.Envelope{data=ViewURL}
// @Failure		404	{object}	response.Envelope
// @Router		/media/url [get]
func (h *Handler) GetViewURL(c *gin.Context) {
	var q ViewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	v, err := h.service.ViewURL(c.Request.Context(), q.Key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "view url issued", v)
}

func (h *Handler) ListMine(c *gin.Context) {
	var p pagination.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}
	ownerID, _, _ := middleware.CurrentUser(c)

	items, total, err := h.service.ListMine(c.Request.Context(), ownerID, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "media retrieved", items, p, total)
}

func (h *Handler) Delete(c *gin.Context) {
	userID, role, _ := middleware.CurrentUser(c)

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), userID, role == middleware.RoleAdmin); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "media deleted", nil)
}
