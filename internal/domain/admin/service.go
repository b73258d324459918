package admin

import (
	"context"
	"strings"
	"time"

	"staysphere/internal/domain/auth"
	"staysphere/internal/domain/property"
	"staysphere/internal/pkg/pagination"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Moderator is the listing lifecycle surface of the property service.
type Moderator interface {
	ListByStatus(ctx context.Context, status string, params pagination.Params) ([]property.Property, int64, error)
	Approve(ctx context.Context, id int64) (*property.Property, error)
	Reject(ctx context.Context, id int64, reason string) (*property.Property, error)
	Suspend(ctx context.Context, id int64) (*property.Property, error)
}

type Service struct {
	repo       Repository
	properties Moderator
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, properties Moderator, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		properties: properties,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ListProperties(ctx context.Context, status string, params pagination.Params) ([]property.Property, int64, error) {
	return s.properties.ListByStatus(ctx, status, params)
}

func (s *Service) ApproveProperty(ctx context.Context, adminID, id int64) (*property.Property, error) {
	p, err := s.properties.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("property approved", zap.Int64("admin_id", adminID), zap.Int64("property_id", id))
	return p, nil
}

func (s *Service) RejectProperty(ctx context.Context, adminID, id int64, reason string) (*property.Property, error) {
	p, err := s.properties.Reject(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	s.logger.Info("property rejected", zap.Int64("admin_id", adminID), zap.Int64("property_id", id))
	return p, nil
}

func (s *Service) SuspendProperty(ctx context.Context, adminID, id int64) (*property.Property, error) {
	p, err := s.properties.Suspend(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("property suspended", zap.Int64("admin_id", adminID), zap.Int64("property_id", id))
	return p, nil
}

func (s *Service) ListUsers(ctx context.Context, q UserQuery, params pagination.Params) ([]auth.User, int64, error) {
	if q.Role != "" && !auth.Role(strings.ToUpper(q.Role)).Valid() {
		return nil, 0, ErrInvalidRole
	}
	return s.repo.ListUsers(ctx, q, params)
}

// ChangeRole takes effect on the user's next sign-in.
func (s *Service) ChangeRole(ctx context.Context, adminID, userID int64, role string) (*auth.User, error) {
	r := auth.Role(strings.ToUpper(strings.TrimSpace(role)))
	if !r.Valid() {
		return nil, ErrInvalidRole
	}
	if adminID == userID {
		return nil, ErrSelfAction
	}
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == r {
		return u, nil
	}
	if err := s.repo.UpdateUser(ctx, userID, map[string]any{"role": r}); err != nil {
		return nil, err
	}
	s.logger.Info("user role changed",
		zap.Int64("admin_id", adminID),
		zap.Int64("user_id", userID),
		zap.String("from", string(u.Role)),
		zap.String("to", string(r)),
	)
	u.Role = r
	return u, nil
}

func (s *Service) BanUser(ctx context.Context, adminID, userID int64, reason string) (*auth.User, error) {
	if adminID == userID {
		return nil, ErrSelfAction
	}
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == auth.RoleAdmin {
		return nil, ErrCannotBanAdmin
	}
	if u.IsBanned {
		return nil, ErrAlreadyBanned
	}

	now := s.now()
	reason = strings.TrimSpace(reason)
	err = s.repo.UpdateUser(ctx, userID, map[string]any{
		"is_banned":  true,
		"banned_at":  now,
		"ban_reason": reason,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Warn("user banned", zap.Int64("admin_id", adminID), zap.Int64("user_id", userID), zap.String("reason", reason))
	u.IsBanned = true
	u.BannedAt = &now
	u.BanReason = reason
	return u, nil
}

func (s *Service) UnbanUser(ctx context.Context, adminID, userID int64) (*auth.User, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsBanned {
		return nil, ErrNotBanned
	}
	err = s.repo.UpdateUser(ctx, userID, map[string]any{
		"is_banned":  false,
		"banned_at":  nil,
		"ban_reason": "",
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user unbanned", zap.Int64("admin_id", adminID), zap.Int64("user_id", userID))
	u.IsBanned = false
	u.BannedAt = nil
	u.BanReason = ""
	return u, nil
}

// Analytics runs the independent aggregate queries concurrently.
func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	out := &Analytics{GeneratedAt: s.now()}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := s.repo.CountUsersByRole(gctx)
		out.UsersByRole = m
		return err
	})
	g.Go(func() error {
		m, err := s.repo.CountPropertiesByStatus(gctx)
		out.PropertiesByStatus = m
		return err
	})
	g.Go(func() error {
		m, err := s.repo.CountBookingsByStatus(gctx)
		out.BookingsByStatus = m
		return err
	})
	g.Go(func() error {
		v, err := s.repo.PaidRevenue(gctx)
		out.Revenue = v
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountActiveSubscriptions(gctx)
		out.ActiveSubscriptions = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
