package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /auth. limiter guards the credential endpoints.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAuth, limiter gin.HandlerFunc) {
	g := api.Group("/auth")

	open := g.Group("", limiter)
	{
		open.POST("/register", h.Register)
		open.POST("/verify-otp", h.VerifyOTP)
		open.POST("/resend-otp", h.ResendOTP)
		open.POST("/login", h.Login)
		open.POST("/login/otp", h.RequestLoginOTP)
		open.POST("/login/otp/verify", h.LoginWithOTP)
		open.POST("/forgot-password", h.ForgotPassword)
		open.POST("/reset-password", h.ResetPassword)
	}

	me := g.Group("", requireAuth)
	{
		me.GET("/me", h.Me)
		me.PATCH("/me", h.UpdateProfile)
		me.PUT("/password", h.ChangePassword)
	}
}
