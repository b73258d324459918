package destination

import (
	"context"
	"fmt"
	"testing"

	"staysphere/internal/database"
	"staysphere/internal/domain/property"
	"staysphere/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:destination_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&property.Property{}))
	return db
}

func listing(t *testing.T, db *gorm.DB, city, country string, price float64, rating float64, reviews int, status property.Status) *property.Property {
	t.Helper()
	p := &property.Property{
		OwnerID: 1, Title: city + " stay", Type: property.TypeApartment,
		City: city, Country: country, Price: price, MaxGuests: 2,
		AverageRating: rating, ReviewCount: reviews, Status: status,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func newService(db *gorm.DB) *Service {
	props := property.NewService(property.NewRepository(db), nil, nil, zap.NewNop())
	return NewService(NewRepository(db), props)
}

func TestList(t *testing.T) {
	db := setupTestDB(t)
	listing(t, db, "Lisbon", "Portugal", 80, 4, 3, property.StatusLive)
	listing(t, db, "Lisbon", "Portugal", 60, 5, 1, property.StatusLive)
	listing(t, db, "Lisbon", "Portugal", 20, 0, 0, property.StatusPending)
	listing(t, db, "Porto", "Portugal", 55, 0, 0, property.StatusLive)
	listing(t, db, "Rome", "Italy", 120, 3.5, 2, property.StatusLive)
	gone := listing(t, db, "Rome", "Italy", 10, 0, 0, property.StatusLive)
	require.NoError(t, db.Delete(gone).Error)

	svc := newService(db)
	items, total, err := svc.List(context.Background(), Query{}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)

	assert.Equal(t, Destination{City: "Lisbon", Country: "Portugal", PropertyCount: 2, StartingPrice: 60, AverageRating: 4.5}, items[0])
	assert.Equal(t, "Porto", items[1].City)
	assert.Zero(t, items[1].AverageRating)
	assert.Equal(t, Destination{City: "Rome", Country: "Italy", PropertyCount: 1, StartingPrice: 120, AverageRating: 3.5}, items[2])

	items, total, err = svc.List(context.Background(), Query{Country: "italy"}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Rome", items[0].City)

	items, total, err = svc.List(context.Background(), Query{}, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Rome", items[0].City)
}

func TestProperties(t *testing.T) {
	db := setupTestDB(t)
	cheap := listing(t, db, "Lisbon", "Portugal", 60, 0, 0, property.StatusLive)
	listing(t, db, "Lisbon", "Portugal", 80, 0, 0, property.StatusLive)
	listing(t, db, "Lisbon", "Portugal", 20, 0, 0, property.StatusRejected)
	listing(t, db, "Rome", "Italy", 120, 0, 0, property.StatusLive)

	svc := newService(db)
	items, total, err := svc.Properties(context.Background(), "lisbon", property.SearchQuery{Sort: "price_asc"}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, cheap.ID, items[0].ID)

	_, _, err = svc.Properties(context.Background(), " ", property.SearchQuery{}, pagination.Params{})
	assert.ErrorIs(t, err, ErrCityRequired)
}
