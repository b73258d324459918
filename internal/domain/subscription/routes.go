package subscription

import (
	"staysphere/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /subscriptions. optionalAuth lets admins list inactive plans.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	g := api.Group("/subscriptions")

	g.GET("/plans", optionalAuth, h.GetPlans)

	owner := g.Group("", requireAuth, middleware.OwnerOnly())
	{
		owner.GET("/me", h.GetMySubscription)
		owner.GET("/entitlement", h.GetEntitlement)
		owner.POST("", h.Subscribe)
		owner.POST("/change-plan", h.ChangePlan)
		owner.POST("/:id/cancel", h.Cancel)
	}

	admin := g.Group("", requireAuth, middleware.AdminOnly())
	{
		admin.POST("/plans", h.CreatePlan)
		admin.PATCH("/plans/:id", h.UpdatePlan)
		admin.POST("/:id/mark-paid", h.MarkPaid)
	}
}
