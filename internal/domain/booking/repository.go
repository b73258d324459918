package booking

import (
	"context"
	"errors"
	"time"

	"staysphere/internal/database"
	"staysphere/internal/pkg/pagination"

	"gorm.io/gorm"
)

// Repository defines the persistence operations for bookings
type Repository interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	// LockProperty serializes writers on one property for the rest of the transaction.
	LockProperty(ctx context.Context, propertyID int64) error

	// HasOverlap reports whether an active booking other than excludeID
	// intersects [start, end). Pass excludeID 0 to check every booking.
	HasOverlap(ctx context.Context, propertyID int64, start, end time.Time, excludeID int64) (bool, error)
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	// UpdateStatus moves id from one status to another. It returns
	// ErrInvalidTransition when the booking is no longer in from.
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
	UpdatePaymentStatus(ctx context.Context, id int64, status PaymentStatus) error
	// SetPaymentStatus moves an active booking's payment status from one value
	// to another. It returns ErrInvalidTransition when the row no longer matches.
	SetPaymentStatus(ctx context.Context, id int64, from, to PaymentStatus) error
	// CancelActive cancels id only while it is still active with payment status
	// seen. It returns ErrBookingChanged when the row moved on since it was read.
	CancelActive(ctx context.Context, id int64, seen, next PaymentStatus, reason string, at time.Time) error

	ListByUser(ctx context.Context, userID int64, status Status, params pagination.Params) ([]Booking, int64, error)
	ListByOwner(ctx context.Context, ownerID int64, status Status, propertyID int64, params pagination.Params) ([]Booking, int64, error)
	ListActiveInRange(ctx context.Context, propertyID int64, from, to time.Time) ([]Booking, error)
	HasUpcomingBookings(ctx context.Context, propertyID int64, now time.Time) (bool, error)
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

func (r *repository) LockProperty(ctx context.Context, propertyID int64) error {
	err := database.LockRow(ctx, r.db, "properties", propertyID)
	if database.IsNotFound(err) {
		return ErrPropertyNotFound
	}
	return err
}

// HasOverlap uses the half-open rule: existing.start < end AND start < existing.end.
func (r *repository) HasOverlap(ctx context.Context, propertyID int64, start, end time.Time, excludeID int64) (bool, error) {
	q := database.Conn(ctx, r.db).
		Model(&Booking{}).
		Where("property_id = ?", propertyID).
		Where("status IN ?", activeStatuses).
		Where("start_date < ? AND end_date > ?", end, start)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	return database.Conn(ctx, r.db).Create(b).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	var b Booking
	if err := database.Conn(ctx, r.db).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) Save(ctx context.Context, b *Booking) error {
	return database.Conn(ctx, r.db).Save(b).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	res := database.Conn(ctx, r.db).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id int64, status PaymentStatus) error {
	return database.Conn(ctx, r.db).
		Model(&Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status": status,
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *repository) SetPaymentStatus(ctx context.Context, id int64, from, to PaymentStatus) error {
	res := database.Conn(ctx, r.db).
		Model(&Booking{}).
		Where("id = ? AND status IN ? AND payment_status = ?", id, activeStatuses, from).
		Updates(map[string]any{
			"payment_status": to,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (r *repository) CancelActive(ctx context.Context, id int64, seen, next PaymentStatus, reason string, at time.Time) error {
	res := database.Conn(ctx, r.db).
		Model(&Booking{}).
		Where("id = ? AND status IN ? AND payment_status = ?", id, activeStatuses, seen).
		Updates(map[string]any{
			"status":              StatusCancelled,
			"payment_status":      next,
			"cancelled_at":        at,
			"cancellation_reason": reason,
			"updated_at":          at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingChanged
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64, status Status, params pagination.Params) ([]Booking, int64, error) {
	q := database.Conn(ctx, r.db).Model(&Booking{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return r.page(q, params)
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int64, status Status, propertyID int64, params pagination.Params) ([]Booking, int64, error) {
	owned := r.db.Table("properties").Select("id").Where("owner_id = ?", ownerID)
	q := database.Conn(ctx, r.db).Model(&Booking{}).Where("property_id IN (?)", owned)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if propertyID > 0 {
		q = q.Where("property_id = ?", propertyID)
	}
	return r.page(q, params)
}

func (r *repository) page(q *gorm.DB, params pagination.Params) ([]Booking, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Booking
	err := q.Order("start_date DESC, id DESC").
		Limit(params.Normalize().Limit).
		Offset(params.Offset()).
		Find(&items).Error
	return items, total, err
}

func (r *repository) ListActiveInRange(ctx context.Context, propertyID int64, from, to time.Time) ([]Booking, error) {
	var items []Booking
	err := database.Conn(ctx, r.db).
		Where("property_id = ?", propertyID).
		Where("status IN ?", activeStatuses).
		Where("start_date < ? AND end_date > ?", to, from).
		Order("start_date ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) HasUpcomingBookings(ctx context.Context, propertyID int64, now time.Time) (bool, error) {
	var n int64
	err := database.Conn(ctx, r.db).
		Model(&Booking{}).
		Where("property_id = ? AND status IN ? AND end_date > ?", propertyID, activeStatuses, now).
		Count(&n).Error
	return n > 0, err
}

// PaymentRepository stores payment records. GetByBookingID returns nil, nil
// when the booking has no payment yet.
type PaymentRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*Payment, error)
	MarkPaid(ctx context.Context, bookingID int64, amount float64, reference string, at time.Time) (*Payment, error)
	MarkRefunded(ctx context.Context, bookingID int64, at time.Time) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*Payment, error) {
	var p Payment
	err := database.Conn(ctx, r.db).Where("booking_id = ?", bookingID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// MarkPaid creates the payment row or flips an existing one to PAID.
func (r *paymentRepository) MarkPaid(ctx context.Context, bookingID int64, amount float64, reference string, at time.Time) (*Payment, error) {
	p, err := r.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &Payment{BookingID: bookingID}
	}
	p.Amount = amount
	p.Status = PaymentPaid
	p.Reference = reference
	p.PaidAt = &at
	if err := database.Conn(ctx, r.db).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) MarkRefunded(ctx context.Context, bookingID int64, at time.Time) error {
	res := database.Conn(ctx, r.db).
		Model(&Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, PaymentPaid).
		Updates(map[string]any{
			"status":      PaymentRefunded,
			"refunded_at": at,
			"updated_at":  at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("no paid payment to refund")
	}
	return nil
}
