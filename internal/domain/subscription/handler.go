package subscription

import (
	"staysphere/internal/middleware"
	"staysphere/internal/pkg/params"
	"staysphere/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for subscription management.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetPlans godoc
// @Summary List subscription plans
// @Description Public endpoint. Admins also see inactive plans with ?all=true.
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subscriptions/plans [get]
func (h *Handler) GetPlans(c *gin.Context) {
	_, role, _ := middleware.CurrentUser(c)
	includeInactive := role == middleware.RoleAdmin && c.Query("all") == "true"

	plans, err := h.service.ListPlans(c.Request.Context(), includeInactive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "plans retrieved", plans)
}

// GetMySubscription godoc
// @Summary Current subscription of the authenticated owner
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subscriptions/me [get]
func (h *Handler) GetMySubscription(c *gin.Context) {
	ownerID, _, _ := middleware.CurrentUser(c)

	view, err := h.service.GetMySubscription(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "subscription retrieved", view)
}

// GetEntitlement godoc
// @Summary Whether the owner can submit another listing
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subscriptions/entitlement [get]
func (h *Handler) GetEntitlement(c *gin.Context) {
	ownerID, _, _ := middleware.CurrentUser(c)

	ent, err := h.service.CanListProperty(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "entitlement retrieved", ent)
}

// Subscribe godoc
// @Summary Subscribe to a plan
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body SubscribeRequest true "plan"
// @Success 201 {object} response.Envelope
// @Router /subscriptions [post]
func (h *Handler) Subscribe(c *gin.Context) {
	ownerID, _, _ := middleware.CurrentUser(c)

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), ownerID, req.PlanID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "subscription created", sub)
}

// ChangePlan godoc
// @Summary Move the active subscription to another plan
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body ChangePlanRequest true "plan"
// @Success 200 {object} response.Envelope
// @Router /subscriptions/change-plan [post]
func (h *Handler) ChangePlan(c *gin.Context) {
	ownerID, _, _ := middleware.CurrentUser(c)

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	sub, err := h.service.ChangeSubscriptionPlan(c.Request.Context(), ownerID, req.PlanID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "subscription plan changed", sub)
}

// Cancel godoc
// @Summary Cancel a subscription
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param id path string true "subscription id"
// @Success 200 {object} response.Envelope
// @Router /subscriptions/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	callerID, role, _ := middleware.CurrentUser(c)

	sub, err := h.service.CancelSubscription(c.Request.Context(), c.Param("id"), callerID, role == middleware.RoleAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "subscription cancelled", sub)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	sub, err := h.service.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "subscription marked as paid", sub)
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "plan created", plan)
}

func (h *Handler) UpdatePlan(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	plan, err := h.service.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "plan updated", plan)
}
