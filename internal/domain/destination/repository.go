package destination

import (
	"context"
	"math"
	"strings"

	"staysphere/internal/database"
	"staysphere/internal/domain/property"
	"staysphere/internal/pkg/pagination"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, q Query, params pagination.Params) ([]Destination, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, f Query, params pagination.Params) ([]Destination, int64, error) {
	base := func() *gorm.DB {
		q := database.Conn(ctx, r.db).Model(&property.Property{}).
			Where("status = ?", property.StatusLive)
		if c := strings.ToLower(strings.TrimSpace(f.Country)); c != "" {
			q = q.Where("LOWER(country) = ?", c)
		}
		if s := strings.ToLower(strings.TrimSpace(f.Q)); s != "" {
			like := "%" + s + "%"
			q = q.Where("LOWER(city) LIKE ? OR LOWER(country) LIKE ?", like, like)
		}
		return q.Group("city, country")
	}

	var total int64
	groups := base().Select("city, country")
	if err := database.Conn(ctx, r.db).Table("(?) AS d", groups).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := params.Normalize()
	var rows []Destination
	err := base().
		Select("city, country, " +
			"COUNT(*) AS property_count, " +
			"CAST(MIN(price) AS FLOAT) AS starting_price, " +
			"CAST(COALESCE(AVG(CASE WHEN review_count > 0 THEN average_rating END), 0) AS FLOAT) AS average_rating").
		Order("property_count DESC").Order("city ASC").
		Limit(p.Limit).Offset(p.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range rows {
		rows[i].AverageRating = math.Round(rows[i].AverageRating*100) / 100
	}
	return rows, total, nil
}
