package admin

import (
	"staysphere/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	admin := api.Group("/admin", requireAuth, middleware.AdminOnly())

	// properties moderation
	admin.GET("/properties", h.GetProperties)
	admin.POST("/properties/:id/approve", h.ApproveProperty)
	admin.POST("/properties/:id/reject", h.RejectProperty)
	admin.POST("/properties/:id/suspend", h.SuspendProperty)

	// users
	admin.GET("/users", h.GetUsers)
	admin.PATCH("/users/:id/role", h.ChangeRole)
	admin.POST("/users/:id/ban", h.BanUser)
	admin.POST("/users/:id/unban", h.UnbanUser)

	admin.GET("/analytics", h.GetAnalytics)
}
