package calendar

import (
	"staysphere/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	events := api.Group("/events/properties")
	{
		events.GET("/:id", h.GetBusy)
		events.GET("/:id/calendar.ics", h.ExportICS)
		events.PUT("/:id/feeds", requireAuth, middleware.OwnerOnly(), h.SetFeeds)
		events.POST("/:id/sync", requireAuth, middleware.OwnerOnly(), h.Sync)
	}
}
