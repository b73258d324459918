package property

import (
	"context"
	"errors"
	"strings"
	"time"

	"staysphere/internal/database"
	"staysphere/internal/pkg/pagination"

	"gorm.io/gorm"
)

// activeBookingStatuses block a listing's dates.
var activeBookingStatuses = []string{"PENDING", "CONFIRMED"}

type Repository interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	LockOwner(ctx context.Context, ownerID int64) error

	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id int64) (*Property, error)
	Save(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, f Filter, params pagination.Params) ([]Property, int64, error)
	CountActiveByOwner(ctx context.Context, ownerID int64) (int64, error)

	// TransitionStatus moves id to `to` only when its current status is in from.
	TransitionStatus(ctx context.Context, id int64, from []Status, to Status, reason string) error
	UpdateRating(ctx context.Context, id int64, average float64, count int) error
	SetCalendarFeeds(ctx context.Context, id int64, feeds []string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.Transaction(ctx, r.db, fn)
}

func (r *repository) LockOwner(ctx context.Context, ownerID int64) error {
	return database.LockRow(ctx, r.db, "users", ownerID)
}

func (r *repository) Create(ctx context.Context, p *Property) error {
	return database.Conn(ctx, r.db).Create(p).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Property, error) {
	var p Property
	if err := database.Conn(ctx, r.db).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Save(ctx context.Context, p *Property) error {
	return database.Conn(ctx, r.db).Save(p).Error
}

// Delete soft deletes a property (sets deleted_at)
func (r *repository) Delete(ctx context.Context, id int64) error {
	res := database.Conn(ctx, r.db).Delete(&Property{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// Search returns one page of properties matching f and the total match count.
func (r *repository) Search(ctx context.Context, f Filter, params pagination.Params) ([]Property, int64, error) {
	q := database.Conn(ctx, r.db).Model(&Property{})

	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.OwnerID > 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Query)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(city) LIKE ?", like, like, like)
	}
	if f.City != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(f.City)))
	}
	if f.Country != "" {
		q = q.Where("LOWER(country) = ?", strings.ToLower(strings.TrimSpace(f.Country)))
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.Guests > 0 {
		q = q.Where("max_guests >= ?", f.Guests)
	}
	if f.Bedrooms > 0 {
		q = q.Where("bedrooms >= ?", f.Bedrooms)
	}
	// amenities are stored as a JSON array of strings
	for _, a := range f.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			q = q.Where("amenities LIKE ?", `%"`+a+`"%`)
		}
	}
	if f.InstantBooking != nil {
		q = q.Where("instant_booking = ?", *f.InstantBooking)
	}
	if f.CheckIn != nil && f.CheckOut != nil {
		busy := r.db.Table("bookings").
			Select("property_id").
			Where("status IN ? AND start_date < ? AND end_date > ?", activeBookingStatuses, *f.CheckOut, *f.CheckIn)
		q = q.Where("id NOT IN (?)", busy)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Property
	err := q.Order(sortExpr(f.Sort)).
		Limit(params.Normalize().Limit).
		Offset(params.Offset()).
		Find(&items).Error
	return items, total, err
}

func sortExpr(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC, id DESC"
	case "price_desc":
		return "price DESC, id DESC"
	case "rating":
		return "average_rating DESC, review_count DESC, id DESC"
	case "oldest":
		return "created_at ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// CountActiveByOwner counts listings that occupy a subscription slot.
func (r *repository) CountActiveByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var n int64
	err := database.Conn(ctx, r.db).
		Model(&Property{}).
		Where("owner_id = ? AND status IN ?", ownerID, []Status{StatusPending, StatusLive}).
		Count(&n).Error
	return n, err
}

func (r *repository) TransitionStatus(ctx context.Context, id int64, from []Status, to Status, reason string) error {
	res := database.Conn(ctx, r.db).
		Model(&Property{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]any{
			"status":           to,
			"rejection_reason": reason,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrInvalidTransition
}

func (r *repository) UpdateRating(ctx context.Context, id int64, average float64, count int) error {
	return database.Conn(ctx, r.db).
		Model(&Property{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"average_rating": average,
			"review_count":   count,
		}).Error
}

func (r *repository) SetCalendarFeeds(ctx context.Context, id int64, feeds []string) error {
	res := database.Conn(ctx, r.db).
		Model(&Property{ID: id}).
		Select("calendar_feeds").
		Updates(&Property{CalendarFeeds: feeds})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
