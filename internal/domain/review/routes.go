package review

import (
	"staysphere/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	api.GET("/properties/:id/reviews", h.GetByProperty)

	g := api.Group("/reviews", requireAuth)
	{
		g.POST("", h.Create)
		g.PATCH("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.POST("/:id/response", middleware.OwnerOnly(), h.AddOwnerResponse)
	}
}
