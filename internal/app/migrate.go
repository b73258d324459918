package app

import (
	"staysphere/internal/domain/auth"
	"staysphere/internal/domain/booking"
	"staysphere/internal/domain/media"
	"staysphere/internal/domain/property"
	"staysphere/internal/domain/review"
	"staysphere/internal/domain/subscription"

	"gorm.io/gorm"
)

// Models lists every persisted entity.
func Models() []any {
	return []any{
		&auth.User{},
		&subscription.Plan{},
		&subscription.Subscription{},
		&property.Property{},
		&booking.Booking{},
		&booking.Payment{},
		&review.Review{},
		&media.Object{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
