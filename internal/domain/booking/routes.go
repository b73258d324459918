package booking

import (
	"staysphere/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /bookings and the public availability endpoint.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	api.GET("/properties/:id/availability", h.GetAvailability)

	g := api.Group("/bookings", requireAuth)
	{
		g.POST("", h.CreateBooking)
		g.GET("/mine", h.GetMyBookings)
		g.GET("/owner", middleware.OwnerOnly(), h.GetOwnerBookings)
		g.GET("/:id", h.GetBooking)
		g.PATCH("/:id/dates", h.UpdateDates)
		g.POST("/:id/cancel", h.CancelBooking)
		g.POST("/:id/confirm", middleware.OwnerOnly(), h.ConfirmBooking)
		g.POST("/:id/complete", middleware.OwnerOnly(), h.CompleteBooking)
		g.POST("/:id/mark-paid", middleware.OwnerOnly(), h.MarkBookingPaid)
	}
}
