package destination

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/destinations", h.List)
	api.GET("/destinations/:city/properties", h.Properties)
}
