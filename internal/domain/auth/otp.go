package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"staysphere/internal/pkg/kvstore"
)

var codeRegex = regexp.MustCompile(`^\d{6}$`)

type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeLogin  Purpose = "login"
	PurposeReset  Purpose = "reset"
)

func (p Purpose) Valid() bool {
	return p == PurposeSignup || p == PurposeLogin || p == PurposeReset
}

type OTPConfig struct {
	Pepper         string
	TTL            time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
}

// OTPStore keeps hashed one-time codes in a TTL store, one live code per
// (purpose, email). Issuing a new code replaces the previous one.
type OTPStore struct {
	store kvstore.Store
	cfg   OTPConfig
}

func NewOTPStore(store kvstore.Store, cfg OTPConfig) *OTPStore {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &OTPStore{store: store, cfg: cfg}
}

// Issue generates and stores a fresh code and returns it for delivery.
func (o *OTPStore) Issue(ctx context.Context, purpose Purpose, email string) (string, error) {
	if o.cfg.ResendCooldown > 0 {
		ok, err := o.store.SetNX(ctx, o.key("cooldown", purpose, email), "1", o.cfg.ResendCooldown)
		if err != nil {
			return "", fmt.Errorf("otp cooldown: %w", err)
		}
		if !ok {
			return "", ErrOTPCooldown
		}
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := o.store.Set(ctx, o.key("code", purpose, email), o.hash(code), o.cfg.TTL); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	if err := o.store.Delete(ctx, o.key("attempts", purpose, email)); err != nil {
		return "", fmt.Errorf("reset otp attempts: %w", err)
	}
	return code, nil
}

// Verify consumes the code on success. Failed attempts are counted and the
// code is discarded once MaxAttempts is reached.
func (o *OTPStore) Verify(ctx context.Context, purpose Purpose, email, code string) error {
	if !codeRegex.MatchString(code) {
		return ErrInvalidOTP
	}

	codeKey := o.key("code", purpose, email)
	attemptsKey := o.key("attempts", purpose, email)

	stored, err := o.store.Get(ctx, codeKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("load otp: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(o.hash(code))) != 1 {
		attempts, _, err := o.store.Incr(ctx, attemptsKey, o.cfg.TTL)
		if err != nil {
			return fmt.Errorf("count otp attempt: %w", err)
		}
		if attempts >= int64(o.cfg.MaxAttempts) {
			_ = o.store.Delete(ctx, codeKey, attemptsKey)
			return ErrTooManyAttempts
		}
		return ErrInvalidOTP
	}

	return o.store.Delete(ctx, codeKey, attemptsKey)
}

func (o *OTPStore) key(kind string, purpose Purpose, email string) string {
	return "otp:" + kind + ":" + string(purpose) + ":" + normalizeEmail(email)
}

func (o *OTPStore) hash(code string) string {
	h := sha256.Sum256([]byte(code + o.cfg.Pepper))
	return hex.EncodeToString(h[:])
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
