package app

import (
	"net/http"

	"staysphere/internal/config"
	"staysphere/internal/domain/admin"
	"staysphere/internal/domain/auth"
	"staysphere/internal/domain/booking"
	"staysphere/internal/domain/calendar"
	"staysphere/internal/domain/destination"
	"staysphere/internal/domain/media"
	"staysphere/internal/domain/property"
	"staysphere/internal/domain/review"
	"staysphere/internal/domain/subscription"
	"staysphere/internal/middleware"
	"staysphere/internal/pkg/jwt"
	"staysphere/internal/pkg/kvstore"
	"staysphere/internal/pkg/response"
	"staysphere/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RouterParams collects everything mounted on the engine.
type RouterParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	JWT    *jwt.Service
	Store  kvstore.Store

	Auth         *auth.Handler
	Properties   *property.Handler
	Bookings     *booking.Handler
	Reviews      *review.Handler
	Subscription *subscription.Handler
	Admin        *admin.Handler
	Media        *media.Handler
	Calendar     *calendar.Handler
	Destinations *destination.Handler
}

// NewRouter builds the gin engine with every route under /api.
func NewRouter(p RouterParams) *gin.Engine {
	if p.Config.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	validator.Setup()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(p.Logger))
	r.Use(middleware.Recovery(p.Logger))
	r.Use(middleware.CORS(p.Config.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, "ok", gin.H{"status": "up"})
	})
	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})

	rl := p.Config.RateLimit
	api := r.Group("/api")
	api.Use(middleware.RateLimit(p.Store, "api", rl.Requests, rl.Window, p.Logger))

	requireAuth := middleware.JWTAuth(p.JWT)
	optionalAuth := middleware.OptionalAuth(p.JWT)
	authLimiter := middleware.RateLimit(p.Store, "auth", rl.AuthRequests, rl.Window, p.Logger)

	p.Auth.RegisterRoutes(api, requireAuth, authLimiter)
	p.Properties.RegisterRoutes(api, requireAuth, optionalAuth)
	p.Subscription.RegisterRoutes(api, requireAuth, optionalAuth)
	p.Bookings.RegisterRoutes(api, requireAuth)
	p.Reviews.RegisterRoutes(api, requireAuth)
	p.Admin.RegisterRoutes(api, requireAuth)
	p.Media.RegisterRoutes(api, requireAuth)
	p.Calendar.RegisterRoutes(api, requireAuth)
	p.Destinations.RegisterRoutes(api)

	return r
}
