// Command seed creates the default subscription plans and an admin account.
// Running it again updates existing rows in place.
package main

import (
	"log"
	"os"
	"strings"

	"staysphere/internal/app"
	"staysphere/internal/config"
	"staysphere/internal/database"
	"staysphere/internal/domain/auth"
	"staysphere/internal/domain/subscription"
	"staysphere/internal/logging"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultPlans = []subscription.Plan{
	{Type: "BASIC", Name: "Basic", Description: "One listing for hosts getting started", Price: 9.99, DurationDays: 30, MaxProperties: 1, IsActive: true},
	{Type: "STANDARD", Name: "Standard", Description: "Up to five listings", Price: 29.99, DurationDays: 30, MaxProperties: 5, IsActive: true},
	{Type: "PREMIUM", Name: "Premium", Description: "Up to twenty-five listings", Price: 79.99, DurationDays: 30, MaxProperties: 25, IsActive: true},
	{Type: "ANNUAL", Name: "Annual", Description: "Standard quota billed yearly", Price: 299, DurationDays: 365, MaxProperties: 5, IsActive: true},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, database.WithLogger(logger))
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := app.Migrate(db); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	if err := seedPlans(db); err != nil {
		logger.Fatal("seed plans failed", zap.Error(err))
	}
	logger.Info("plans seeded", zap.Int("count", len(defaultPlans)))

	email := strings.ToLower(strings.TrimSpace(getEnv("SEED_ADMIN_EMAIL", "admin@staysphere.local")))
	password := getEnv("SEED_ADMIN_PASSWORD", "admin12345")
	if err := seedAdmin(db, email, password); err != nil {
		logger.Fatal("seed admin failed", zap.Error(err))
	}
	logger.Info("admin seeded", zap.String("email", email))
}

func seedPlans(db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "price", "duration_days", "max_properties", "is_active", "updated_at"}),
	}).Create(&defaultPlans).Error
}

func seedAdmin(db *gorm.DB, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := auth.User{
		Name:          "Administrator",
		Email:         email,
		PasswordHash:  hash,
		Role:          auth.RoleAdmin,
		EmailVerified: true,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role", "email_verified", "updated_at"}),
	}).Create(&admin).Error
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
