package review

import (
	"context"
	"errors"
	"math"

	"staysphere/internal/database"
	"staysphere/internal/pkg/pagination"

	"gorm.io/gorm"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, rv *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	Save(ctx context.Context, rv *Review) error
	Delete(ctx context.Context, id int64) error
	ListByProperty(ctx context.Context, propertyID int64, params pagination.Params) ([]Review, int64, error)
	Summarize(ctx context.Context, propertyID int64) (Summary, error)
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

func (r *repository) Create(ctx context.Context, rv *Review) error {
	if err := database.Conn(ctx, r.db).Create(rv).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Review, error) {
	var rv Review
	if err := database.Conn(ctx, r.db).First(&rv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rv, nil
}

func (r *repository) Save(ctx context.Context, rv *Review) error {
	return database.Conn(ctx, r.db).Save(rv).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := database.Conn(ctx, r.db).Delete(&Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *repository) ListByProperty(ctx context.Context, propertyID int64, params pagination.Params) ([]Review, int64, error) {
	q := database.Conn(ctx, r.db).Model(&Review{}).Where("property_id = ?", propertyID)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Review
	err := q.Order("created_at DESC, id DESC").
		Limit(params.Normalize().Limit).
		Offset(params.Offset()).
		Find(&items).Error
	return items, total, err
}

func (r *repository) Summarize(ctx context.Context, propertyID int64) (Summary, error) {
	var row struct {
		Avg   float64
		Count int
	}
	err := database.Conn(ctx, r.db).
		Model(&Review{}).
		Select("CAST(COALESCE(AVG(rating), 0) AS FLOAT) AS avg, COUNT(*) AS count").
		Where("property_id = ?", propertyID).
		Scan(&row).Error
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		AverageRating: math.Round(row.Avg*100) / 100,
		ReviewCount:   row.Count,
	}, nil
}
