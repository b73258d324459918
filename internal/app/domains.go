package app

import (
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
	"staysphere/internal/pkg/jwt"
	"staysphere/internal/pkg/storage"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Domains provides repositories, services and handlers of every feature.
var Domains = fx.Options(
	fx.Provide(
		auth.NewUserRepository,
		subscription.NewRepository,
		property.NewRepository,
		booking.NewRepository,
		booking.NewPaymentRepository,
		review.NewRepository,
		admin.NewRepository,
		media.NewRepository,
		destination.NewRepository,
	),
	fx.Provide(
		tokenIssuer,
		propertyCounter,
		listingGate,
		bookingGuard,
		propertyReader,
		propertyStore,
		moderator,
		propertyFeeds,
		bookingWindows,
		propertySearch,
	),
	fx.Provide(
		provideOTPStore,
		auth.NewService,
		subscription.NewService,
		property.NewService,
		booking.NewService,
		review.NewService,
		admin.NewService,
		provideMediaService,
		calendar.NewCache,
		provideFetcher,
		provideCalendarService,
		destination.NewService,
	),
	fx.Provide(
		auth.NewHandler,
		subscription.NewHandler,
		property.NewHandler,
		booking.NewHandler,
		review.NewHandler,
		admin.NewHandler,
		media.NewHandler,
		calendar.NewHandler,
		destination.NewHandler,
	),
)

func tokenIssuer(j *jwt.Service) auth.TokenIssuer { return j }
func propertyCounter(r property.Repository) subscription.PropertyCounter { return r }
func listingGate(s *subscription.Service) property.ListingGate { return s }
func bookingGuard(r booking.Repository) property.BookingGuard { return r }
func propertyReader(s *property.Service) booking.PropertyReader { return s }
func propertyStore(s *property.Service) review.PropertyStore { return s }
func moderator(s *property.Service) admin.Moderator { return s }
func propertyFeeds(s *property.Service) calendar.PropertyFeeds { return s }
func bookingWindows(s *booking.Service) calendar.BookingWindows { return s }
func propertySearch(s *property.Service) destination.PropertySearch { return s }

func provideMediaService(repo media.Repository, store storage.ObjectStore, cfg *config.Config, logger *zap.Logger) *media.Service {
	return media.NewService(repo, store, cfg.S3.PresignTTL, logger)
}

func provideFetcher(cfg *config.Config) calendar.Fetcher {
	return calendar.NewHTTPFetcher(cfg.ICal.FetchTimeout)
}

func provideCalendarService(cache *calendar.Cache, fetcher calendar.Fetcher, props calendar.PropertyFeeds, bookings calendar.BookingWindows, cfg *config.Config, logger *zap.Logger) *calendar.Service {
	return calendar.NewService(cache, fetcher, props, bookings, cfg.ICal.MaxAge, logger)
}
