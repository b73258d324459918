package media

import (
	"staysphere/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	api.GET("/media/url", h.GetViewURL)

	g := api.Group("/media", requireAuth, middleware.OwnerOnly())
	{
		g.POST("/uploads", h.RequestUpload)
		g.GET("/mine", h.ListMine)
		g.DELETE("/:id", h.Delete)
	}
}
