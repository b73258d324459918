package app

import (
	"context"
	"fmt"
	"time"

	"staysphere/internal/config"
	"staysphere/internal/database"
	"staysphere/internal/domain/auth"
	"staysphere/internal/logging"
	"staysphere/internal/pkg/jwt"
	"staysphere/internal/pkg/kvstore"
	"staysphere/internal/pkg/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const janitorInterval = time.Minute

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.AppEnv)
}

func provideDB(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg.DatabaseURL, database.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("database ready", zap.Bool("postgres", database.IsPostgres(cfg.DatabaseURL)))

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

// provideKVStore picks Redis when REDIS_ADDR is set, else an in-process store.
func provideKVStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) kvstore.Store {
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis ping: %w", err)
				}
				logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
				return nil
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		return kvstore.NewRedisStore(client, "staysphere:")
	}

	store := kvstore.NewMemoryStore()
	janitorCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go store.RunJanitor(janitorCtx, janitorInterval)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	logger.Info("using in-memory key-value store")
	return store
}

func provideMailer(cfg *config.Config, logger *zap.Logger) auth.Mailer {
	if !cfg.SMTP.Enabled() {
		logger.Warn("SMTP_HOST not set, one-time codes are written to the log")
		return auth.NewConsoleMailer(logger)
	}
	return auth.NewSMTPMailer(auth.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
}

func provideJWT(cfg *config.Config) *jwt.Service {
	return jwt.New(cfg.JWT.Secret, cfg.JWT.TTL)
}

func provideObjectStore(cfg *config.Config, logger *zap.Logger) (storage.ObjectStore, error) {
	if !cfg.S3.Enabled() {
		logger.Warn("S3_BUCKET not set, media uploads are disabled")
		return storage.Disabled{}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s3, err := storage.NewS3(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}
	logger.Info("media bucket configured", zap.String("bucket", cfg.S3.Bucket))
	return s3, nil
}

func provideOTPStore(store kvstore.Store, cfg *config.Config) *auth.OTPStore {
	return auth.NewOTPStore(store, auth.OTPConfig{
		Pepper:         cfg.OTP.Pepper,
		TTL:            cfg.OTP.TTL,
		ResendCooldown: cfg.OTP.ResendCooldown,
		MaxAttempts:    cfg.OTP.MaxAttempts,
	})
}
