package database

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type options struct {
	level  logger.LogLevel
	logger *zap.Logger
}

type Option func(*options)

// WithLogLevel overrides the gorm log level (Warn by default).
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithLogger sends connection and gorm messages to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Connect opens PostgreSQL for postgres:// DSNs and SQLite (pure Go driver) for anything else.
func Connect(dsn string, opts ...Option) (*gorm.DB, error) {
	o := options{level: logger.Warn, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := &gorm.Config{
		Logger:         newGormLogger(o.logger, o.level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	if IsPostgres(dsn) {
		o.logger.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	o.logger.Info("using sqlite", zap.String("dsn", dsn))
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func newGormLogger(l *zap.Logger, level logger.LogLevel) logger.Interface {
	return logger.New(zap.NewStdLog(l.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
