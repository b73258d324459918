package property

import (
	"staysphere/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /properties. Moderation lives under /admin.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	g := api.Group("/properties")

	g.GET("", h.Search)
	g.GET("/:id", optionalAuth, h.Get)

	owner := g.Group("", requireAuth, middleware.OwnerOnly())
	{
		owner.GET("/mine", h.ListMine)
		owner.POST("", h.Create)
		owner.PATCH("/:id", h.Update)
		owner.DELETE("/:id", h.Delete)
	}
}
