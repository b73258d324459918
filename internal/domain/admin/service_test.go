package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"staysphere/internal/database"
	"staysphere/internal/domain/auth"
	"staysphere/internal/domain/booking"
	"staysphere/internal/domain/property"
	"staysphere/internal/domain/subscription"
	"staysphere/internal/pkg/apperr"
	"staysphere/internal/pkg/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:admin_test_%s?mode=memory&cache=shared", name)
	db, err := database.Connect(dsn, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&auth.User{},
		&property.Property{},
		&booking.Booking{},
		&subscription.Plan{},
		&subscription.Subscription{},
	))
	return db
}

type fixture struct {
	db    *gorm.DB
	svc   *Service
	admin int64
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	props := property.NewService(property.NewRepository(db), nil, nil, zap.NewNop())
	svc := NewService(NewRepository(db), props, zap.NewNop())
	svc.now = func() time.Time { return testNow }

	f := &fixture{db: db, svc: svc}
	f.admin = createUser(t, db, "Root", "root@example.com", auth.RoleAdmin)
	return f
}

func createUser(t *testing.T, db *gorm.DB, name, email string, role auth.Role) int64 {
	t.Helper()
	u := auth.User{Name: name, Email: email, PasswordHash: "x", Role: role, EmailVerified: true}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func createProperty(t *testing.T, db *gorm.DB, ownerID int64, status property.Status) *property.Property {
	t.Helper()
	p := &property.Property{
		OwnerID: ownerID, Title: "Cabin", Type: property.TypeCabin,
		City: "Oslo", Country: "Norway", Price: 90, MaxGuests: 4, Status: status,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestModeration(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := createUser(t, f.db, "Olga", "olga@example.com", auth.RoleOwner)
	first := createProperty(t, f.db, owner, property.StatusPending)
	second := createProperty(t, f.db, owner, property.StatusPending)
	createProperty(t, f.db, owner, property.StatusLive)

	queue, total, err := f.svc.ListProperties(ctx, "", pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, queue, 2)
	assert.Equal(t, first.ID, queue[0].ID)

	approved, err := f.svc.ApproveProperty(ctx, f.admin, first.ID)
	require.NoError(t, err)
	assert.Equal(t, property.StatusLive, approved.Status)

	_, err = f.svc.RejectProperty(ctx, f.admin, second.ID, "  ")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	rejected, err := f.svc.RejectProperty(ctx, f.admin, second.ID, "blurry photos")
	require.NoError(t, err)
	assert.Equal(t, property.StatusRejected, rejected.Status)
	assert.Equal(t, "blurry photos", rejected.RejectionReason)

	_, err = f.svc.SuspendProperty(ctx, f.admin, second.ID)
	assert.ErrorIs(t, err, property.ErrInvalidTransition)

	suspended, err := f.svc.SuspendProperty(ctx, f.admin, first.ID)
	require.NoError(t, err)
	assert.Equal(t, property.StatusSuspended, suspended.Status)

	_, err = f.svc.ApproveProperty(ctx, f.admin, 999)
	assert.ErrorIs(t, err, property.ErrPropertyNotFound)

	_, _, err = f.svc.ListProperties(ctx, "archived", pagination.Params{})
	assert.ErrorIs(t, err, property.ErrInvalidStatus)
}

func TestListUsers_Filters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	createUser(t, f.db, "Alice Guest", "alice@example.com", auth.RoleGuest)
	bob := createUser(t, f.db, "Bob Owner", "bob@example.com", auth.RoleOwner)
	createUser(t, f.db, "Carol Owner", "carol@example.com", auth.RoleOwner)
	_, err := f.svc.BanUser(ctx, f.admin, bob, "spam")
	require.NoError(t, err)

	users, total, err := f.svc.ListUsers(ctx, UserQuery{Role: "owner"}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)

	users, total, err = f.svc.ListUsers(ctx, UserQuery{Search: "ALICE"}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "alice@example.com", users[0].Email)

	banned := true
	users, _, err = f.svc.ListUsers(ctx, UserQuery{Banned: &banned}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bob, users[0].ID)

	users, total, err = f.svc.ListUsers(ctx, UserQuery{}, pagination.Params{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, users, 1)

	_, _, err = f.svc.ListUsers(ctx, UserQuery{Role: "superuser"}, pagination.Params{})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestChangeRole(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	guest := createUser(t, f.db, "Gus", "gus@example.com", auth.RoleGuest)

	u, err := f.svc.ChangeRole(ctx, f.admin, guest, "owner")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleOwner, u.Role)

	var stored auth.User
	require.NoError(t, f.db.First(&stored, guest).Error)
	assert.Equal(t, auth.RoleOwner, stored.Role)

	_, err = f.svc.ChangeRole(ctx, f.admin, guest, "king")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = f.svc.ChangeRole(ctx, f.admin, f.admin, "GUEST")
	assert.ErrorIs(t, err, ErrSelfAction)

	_, err = f.svc.ChangeRole(ctx, f.admin, 999, "GUEST")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBanAndUnban(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	guest := createUser(t, f.db, "Gus", "gus@example.com", auth.RoleGuest)
	other := createUser(t, f.db, "Ada", "ada@example.com", auth.RoleAdmin)

	u, err := f.svc.BanUser(ctx, f.admin, guest, " fraud ")
	require.NoError(t, err)
	assert.True(t, u.IsBanned)
	assert.Equal(t, "fraud", u.BanReason)

	var stored auth.User
	require.NoError(t, f.db.First(&stored, guest).Error)
	assert.True(t, stored.IsBanned)
	require.NotNil(t, stored.BannedAt)
	assert.True(t, stored.BannedAt.Equal(testNow))

	_, err = f.svc.BanUser(ctx, f.admin, guest, "")
	assert.ErrorIs(t, err, ErrAlreadyBanned)
	_, err = f.svc.BanUser(ctx, f.admin, other, "")
	assert.ErrorIs(t, err, ErrCannotBanAdmin)
	_, err = f.svc.BanUser(ctx, f.admin, f.admin, "")
	assert.ErrorIs(t, err, ErrSelfAction)

	u, err = f.svc.UnbanUser(ctx, f.admin, guest)
	require.NoError(t, err)
	assert.False(t, u.IsBanned)

	stored = auth.User{}
	require.NoError(t, f.db.First(&stored, guest).Error)
	assert.False(t, stored.IsBanned)
	assert.Nil(t, stored.BannedAt)
	assert.Empty(t, stored.BanReason)

	_, err = f.svc.UnbanUser(ctx, f.admin, guest)
	assert.ErrorIs(t, err, ErrNotBanned)
}

func TestAnalytics(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := createUser(t, f.db, "Olga", "olga@example.com", auth.RoleOwner)
	guest := createUser(t, f.db, "Gus", "gus@example.com", auth.RoleGuest)
	live := createProperty(t, f.db, owner, property.StatusLive)
	createProperty(t, f.db, owner, property.StatusPending)
	gone := createProperty(t, f.db, owner, property.StatusLive)
	require.NoError(t, f.db.Delete(gone).Error)

	bookings := []booking.Booking{
		{Amount: 120.5, Status: booking.StatusConfirmed, PaymentStatus: booking.PaymentPaid},
		{Amount: 80, Status: booking.StatusCompleted, PaymentStatus: booking.PaymentPaid},
		{Amount: 300, Status: booking.StatusPending, PaymentStatus: booking.PaymentPending},
		{Amount: 50, Status: booking.StatusCancelled, PaymentStatus: booking.PaymentRefunded},
	}
	for i := range bookings {
		b := &bookings[i]
		b.PropertyID, b.UserID, b.Nights, b.Guests = live.ID, guest, 1, 1
		b.StartDate = testNow.AddDate(0, 1, i)
		b.EndDate = b.StartDate.AddDate(0, 0, 1)
		require.NoError(t, f.db.Create(b).Error)
	}

	plan := subscription.Plan{Type: "BASIC", Name: "Basic", Price: 10, DurationDays: 30, MaxProperties: 3, IsActive: true}
	require.NoError(t, f.db.Create(&plan).Error)
	subs := []subscription.Subscription{
		{ID: uuid.NewString(), OwnerID: owner, PlanID: plan.ID, MaxProperties: 3, IsActive: true, Paid: true, StartedAt: testNow, ExpiresAt: testNow.AddDate(0, 1, 0)},
		{ID: uuid.NewString(), OwnerID: owner, PlanID: plan.ID, MaxProperties: 3, IsActive: false, Paid: true, StartedAt: testNow.AddDate(0, -2, 0), ExpiresAt: testNow.AddDate(0, -1, 0)},
	}
	require.NoError(t, f.db.Create(&subs).Error)

	a, err := f.svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"ADMIN": 1, "OWNER": 1, "GUEST": 1}, a.UsersByRole)
	assert.Equal(t, map[string]int64{"LIVE": 1, "PENDING": 1}, a.PropertiesByStatus)
	assert.Equal(t, map[string]int64{"CONFIRMED": 1, "COMPLETED": 1, "PENDING": 1, "CANCELLED": 1}, a.BookingsByStatus)
	assert.Equal(t, 200.5, a.Revenue)
	assert.Equal(t, int64(1), a.ActiveSubscriptions)
	assert.Equal(t, testNow, a.GeneratedAt)
}

type failingRepo struct {
	Repository
}

func (failingRepo) CountUsersByRole(context.Context) (map[string]int64, error) {
	return nil, errors.New("db down")
}

func (failingRepo) CountPropertiesByStatus(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (failingRepo) CountBookingsByStatus(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (failingRepo) PaidRevenue(context.Context) (float64, error) { return 0, nil }

func (failingRepo) CountActiveSubscriptions(context.Context) (int64, error) { return 0, nil }

func TestAnalytics_PropagatesError(t *testing.T) {
	svc := NewService(failingRepo{}, nil, zap.NewNop())
	_, err := svc.Analytics(context.Background())
	assert.EqualError(t, err, "db down")
}
