package admin

import (
	"context"
	"errors"
	"math"
	"strings"

	"staysphere/internal/database"
	"staysphere/internal/domain/auth"
	"staysphere/internal/domain/booking"
	"staysphere/internal/domain/property"
	"staysphere/internal/domain/subscription"
	"staysphere/internal/pkg/pagination"

	"gorm.io/gorm"
)

type Repository interface {
	ListUsers(ctx context.Context, q UserQuery, params pagination.Params) ([]auth.User, int64, error)
	GetUser(ctx context.Context, id int64) (*auth.User, error)
	UpdateUser(ctx context.Context, id int64, fields map[string]any) error

	CountUsersByRole(ctx context.Context) (map[string]int64, error)
	CountPropertiesByStatus(ctx context.Context) (map[string]int64, error)
	CountBookingsByStatus(ctx context.Context) (map[string]int64, error)
	PaidRevenue(ctx context.Context) (float64, error)
	CountActiveSubscriptions(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListUsers(ctx context.Context, f UserQuery, params pagination.Params) ([]auth.User, int64, error) {
	q := database.Conn(ctx, r.db).Model(&auth.User{})
	if role := strings.ToUpper(strings.TrimSpace(f.Role)); role != "" {
		q = q.Where("role = ?", role)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if f.Banned != nil {
		q = q.Where("is_banned = ?", *f.Banned)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := params.Normalize()
	var users []auth.User
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(p.Limit).Offset(p.Offset()).
		Find(&users).Error
	return users, total, err
}

func (r *repository) GetUser(ctx context.Context, id int64) (*auth.User, error) {
	var u auth.User
	if err := database.Conn(ctx, r.db).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) UpdateUser(ctx context.Context, id int64, fields map[string]any) error {
	res := database.Conn(ctx, r.db).Model(&auth.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

type bucket struct {
	Bucket string
	Total  int64
}

func (r *repository) countBy(ctx context.Context, model any, column string) (map[string]int64, error) {
	var rows []bucket
	err := database.Conn(ctx, r.db).Model(model).
		Select(column + " AS bucket, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Bucket] = row.Total
	}
	return out, nil
}

func (r *repository) CountUsersByRole(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, &auth.User{}, "role")
}

// CountPropertiesByStatus skips soft-deleted listings.
func (r *repository) CountPropertiesByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, &property.Property{}, "status")
}

func (r *repository) CountBookingsByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, &booking.Booking{}, "status")
}

func (r *repository) PaidRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := database.Conn(ctx, r.db).Model(&booking.Booking{}).
		Where("payment_status = ?", booking.PaymentPaid).
		Select("CAST(COALESCE(SUM(amount), 0) AS FLOAT)").
		Scan(&revenue).Error
	if err != nil {
		return 0, err
	}
	return math.Round(revenue*100) / 100, nil
}

func (r *repository) CountActiveSubscriptions(ctx context.Context) (int64, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&subscription.Subscription{}).
		Where("is_active = ?", true).
		Count(&n).Error
	return n, err
}
