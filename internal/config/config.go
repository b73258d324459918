package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr         = ":8080"
	defaultDatabaseURL      = "staysphere.db"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTTTL           = "24h"
	defaultOTPPepper        = "change-me-otp-pepper"
	defaultOTPTTL           = "10m"
	defaultOTPResend        = "60s"
	defaultOTPMaxAttempts   = "5"
	defaultRateLimit        = "120"
	defaultRateLimitWindow  = "1m"
	defaultAuthRateLimit    = "10"
	defaultSMTPPort         = "587"
	defaultS3Region         = "us-east-1"
	defaultPresignTTL       = "15m"
	defaultICalFetchTimeout = "10s"
	defaultICalMaxAge       = "30m"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	CORSOrigins []string

	JWT       JWTConfig
	OTP       OTPConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	S3        S3Config
	ICal      ICalConfig
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type OTPConfig struct {
	Pepper         string
	TTL            time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
}

type RateLimitConfig struct {
	Requests     int
	AuthRequests int
	Window       time.Duration
}

// RedisConfig is optional. An empty Addr selects the in-process stores.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// SMTPConfig is optional. An empty Host selects the console mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" }

type S3Config struct {
	Bucket          string
	Region          string
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
	PresignTTL      time.Duration
}

func (c S3Config) Enabled() bool { return c.Bucket != "" }

type ICalConfig struct {
	FetchTimeout time.Duration
	MaxAge       time.Duration
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.CORSOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	cfg.JWT.Secret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	if cfg.JWT.TTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}

	cfg.OTP.Pepper = strings.TrimSpace(getEnv("OTP_PEPPER", defaultOTPPepper))
	if cfg.OTP.TTL, err = parseDurationEnv("OTP_TTL", defaultOTPTTL); err != nil {
		return nil, err
	}
	if cfg.OTP.ResendCooldown, err = parseDurationEnv("OTP_RESEND_COOLDOWN", defaultOTPResend); err != nil {
		return nil, err
	}
	if cfg.OTP.MaxAttempts, err = parseIntEnv("OTP_MAX_ATTEMPTS", defaultOTPMaxAttempts); err != nil {
		return nil, err
	}

	if cfg.RateLimit.Requests, err = parseIntEnv("RATE_LIMIT_REQUESTS", defaultRateLimit); err != nil {
		return nil, err
	}
	if cfg.RateLimit.AuthRequests, err = parseIntEnv("RATE_LIMIT_AUTH_REQUESTS", defaultAuthRateLimit); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Window, err = parseDurationEnv("RATE_LIMIT_WINDOW", defaultRateLimitWindow); err != nil {
		return nil, err
	}

	cfg.Redis.Addr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = parseIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}

	cfg.SMTP.Host = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if cfg.SMTP.Port, err = parseIntEnv("SMTP_PORT", defaultSMTPPort); err != nil {
		return nil, err
	}
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = strings.TrimSpace(getEnv("SMTP_FROM", "no-reply@staysphere.local"))

	cfg.S3.Bucket = strings.TrimSpace(os.Getenv("S3_BUCKET"))
	cfg.S3.Region = strings.TrimSpace(getEnv("S3_REGION", defaultS3Region))
	cfg.S3.EndpointURL = strings.TrimSpace(os.Getenv("S3_ENDPOINT_URL"))
	cfg.S3.AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	cfg.S3.SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	if cfg.S3.PresignTTL, err = parseDurationEnv("S3_PRESIGN_TTL", defaultPresignTTL); err != nil {
		return nil, err
	}

	if cfg.ICal.FetchTimeout, err = parseDurationEnv("ICAL_FETCH_TIMEOUT", defaultICalFetchTimeout); err != nil {
		return nil, err
	}
	if cfg.ICal.MaxAge, err = parseDurationEnv("ICAL_MAX_AGE", defaultICalMaxAge); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProdLike reports whether secrets and external services must be configured.
func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.OTP.TTL <= 0 {
		return fmt.Errorf("OTP_TTL must be > 0")
	}
	if cfg.OTP.ResendCooldown < 0 {
		return fmt.Errorf("OTP_RESEND_COOLDOWN must be >= 0")
	}
	if cfg.OTP.MaxAttempts <= 0 {
		return fmt.Errorf("OTP_MAX_ATTEMPTS must be > 0")
	}
	if cfg.RateLimit.Requests <= 0 || cfg.RateLimit.AuthRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_AUTH_REQUESTS must be > 0")
	}
	if cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	if cfg.S3.PresignTTL <= 0 || cfg.S3.PresignTTL > 7*24*time.Hour {
		return fmt.Errorf("S3_PRESIGN_TTL must be within (0, 168h]")
	}
	if cfg.ICal.FetchTimeout <= 0 || cfg.ICal.MaxAge <= 0 {
		return fmt.Errorf("ICAL_FETCH_TIMEOUT and ICAL_MAX_AGE must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWT.Secret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.OTP.Pepper, defaultOTPPepper) {
			return fmt.Errorf("in prod/release OTP_PEPPER must be set and not default")
		}
		if !cfg.SMTP.Enabled() {
			return fmt.Errorf("in prod/release SMTP_HOST must be set")
		}
		if !cfg.S3.Enabled() {
			return fmt.Errorf("in prod/release S3_BUCKET must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
