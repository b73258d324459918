package subscription

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"staysphere/internal/database"
	"staysphere/internal/domain/auth"
	"staysphere/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeCounter struct {
	counts map[int64]int64
	err    error
}

func (f *fakeCounter) CountActiveByOwner(_ context.Context, ownerID int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[ownerID], nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:subscription_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}, &Plan{}, &Subscription{}))
	return db
}

func setupTestService(t *testing.T) (*Service, *fakeCounter, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	counter := &fakeCounter{counts: map[int64]int64{}}
	return NewService(NewRepository(db), counter, zap.NewNop()), counter, db
}

func createOwner(t *testing.T, db *gorm.DB, email string) int64 {
	t.Helper()
	u := auth.User{Name: "Owner", Email: email, PasswordHash: "x", Role: auth.RoleOwner, EmailVerified: true}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func createPlan(t *testing.T, db *gorm.DB, typ string, price float64, maxProps int, active bool) *Plan {
	t.Helper()
	p := &Plan{Type: typ, Name: typ, Price: price, DurationDays: 30, MaxProperties: maxProps, IsActive: active}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestCreateSubscription(t *testing.T) {
	svc, _, db := setupTestService(t)
	ctx := context.Background()
	ownerID := createOwner(t, db, "owner@example.com")
	plan := createPlan(t, db, "BASIC", 10, 3, true)

	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	sub, err := svc.CreateSubscription(ctx, ownerID, plan.ID, true)
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.True(t, sub.IsActive)
	assert.True(t, sub.Paid)
	assert.Equal(t, 3, sub.MaxProperties)
	assert.Equal(t, fixed.AddDate(0, 0, 30), sub.ExpiresAt)
}

func TestCreateSubscription_Failures(t *testing.T) {
	svc, _, db := setupTestService(t)
	ctx := context.Background()
	ownerID := createOwner(t, db, "owner@example.com")
	active := createPlan(t, db, "BASIC", 10, 3, true)
	inactive := createPlan(t, db, "LEGACY", 5, 1, false)

	_, err := svc.CreateSubscription(ctx, ownerID, 9999, true)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.CreateSubscription(ctx, ownerID, inactive.ID, true)
	assert.ErrorIs(t, err, ErrPlanInactive)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))

	_, err = svc.CreateSubscription(ctx, ownerID, active.ID, true)
	require.NoError(t, err)

	_, err = svc.CreateSubscription(ctx, ownerID, active.ID, true)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestActiveSubscriptionUniqueIndex(t *testing.T) {
	svc, _, db := setupTestService(t)
	ctx := context.Background()
	ownerID := createOwner(t, db, "owner@example.com")
	plan := createPlan(t, db, "BASIC", 10, 3, true)

	_, err := svc.CreateSubscription(ctx, ownerID, plan.ID, true)
	require.NoError(t, err)

	// bypass the service check and hit the index directly
	now := time.Now().UTC()
	err = NewRepository(db).Create(ctx, &Subscription{
		ID: "second", OwnerID: ownerID, PlanID: plan.ID, MaxProperties: 1,
		IsActive: true, StartedAt: now, ExpiresAt: now.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	// inactive rows are not constrained
	err = NewRepository(db).Create(ctx, &Subscription{
		ID: "old", OwnerID: ownerID, PlanID: plan.ID, MaxProperties: 1,
		IsActive: false, StartedAt: now, ExpiresAt: now.Add(time.Hour),
	})
	assert.NoError(t, err)
}

func TestSubscribe_FreePlanStartsPaid(t *testing.T) {
	svc, _, db := setupTestService(t)
	ctx := context.Background()
	free := createPlan(t, db, "FREE", 0, 1, true)
	paid := createPlan(t, db, "PRO", 49, 10, true)

	sub, err := svc.Subscribe(ctx, createOwner(t, db, "a@example.com"), free.ID)
	require.NoError(t, err)
	assert.True(t, sub.Paid)

	sub, err = svc.Subscribe(ctx, createOwner(t, db, "b@example.com"), paid.ID)
	require.NoError(t, err)
	assert.False(t, sub.Paid)
}

func TestCanListProperty(t *testing.T) {
	svc, counter, db := setupTestService(t)
	ctx := context.Background()
	ownerID := createOwner(t, db, "owner@example.com")
	plan := createPlan(t, db, "BASIC", 10, 3, true)

	ent, err := svc.CanListProperty(ctx, ownerID)
	require.NoError(t, err)
	assert.False(t, ent.Allowed)
	assert.Equal(t, ReasonNoSubscription, ent.Reason)

	_, err = svc.CreateSubscription(ctx, ownerID, plan.ID, true)
	require.NoError(t, err)

	counter.counts[ownerID] = 2
	ent, err = svc.CanListProperty(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, ent.Allowed)
	require.NotNil(t, ent.Remaining)
	assert.Equal(t, 1, *ent.Remaining)

	counter.counts[ownerID] = 3
	ent, err = svc.CanListProperty(ctx, ownerID)
	require.NoError(t, err)
	assert.False(t, ent.Allowed)
	assert.Equal(t, ReasonLimitReached, ent.Reason)
	require.NotNil(t, ent.Remaining)
	assert.Equal(t, 0, *ent.Remaining)
}

func TestCanListProperty_UnpaidAndExpired(t *testing.T) {
	svc, _, db := setupTestService(t)
	ctx := context.Background()
	plan := createPlan(t, db, "BASIC", 10, 3, true)

	unpaidOwner := createOwner(t, db, "unpaid@example.com")
	_, err := svc.CreateSubscription(ctx, unpaidOwner, plan.ID, false)
	require.NoError(t, err)
	ent, err := svc.CanListProperty(ctx, unpaidOwner)
	require.NoError(t, err)
	assert.False(t, ent.Allowed)
	assert.Equal(t, ReasonUnpaid, ent.Reason)

	expiredOwner := createOwner(t, db, "expired@example.com")
	_, err = svc.CreateSubscription(ctx, expiredOwner, plan.ID, true)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().UTC().AddDate(0, 0, 31) }
	ent, err = svc.CanListProperty(ctx, expiredOwner)
	require.NoError(t, err)
	assert.False(t, ent.Allowed)
	assert.Equal(t, ReasonExpired, ent.Reason)
}

func TestCanListProperty_CounterError(t *testing.T) {
	svc, counter, db := setupTestService(t)
	ctx := context.Background()
	ownerID := createOwner(t, db, "owner@example.com")
	plan := createPlan(t, db, "BASIC", 10, 3, true)
	_, err := svc.CreateSubscription(ctx, ownerID, plan.ID, true)
	require.NoError(t, err)

	counter.err = errors.New("db down")
	_, err = svc.CanListProperty(ctx, ownerID)
	assert.EqualError(t, err, "db down")
}

func TestChangeSubscriptionPlan(t *testing.T) {
	svc, _, db := setupTestService(t)
	ctx := context.Background()
	ownerID := createOwner(t, db, "owner@example.com")
	basic := createPlan(t, db, "BASIC", 10, 3, true)
	pro := createPlan(t, db, "PRO", 0, 10, true)

	first, err := svc.CreateSubscription(ctx, ownerID, basic.ID, true)
	require.NoError(t, err)

	_, err = svc.ChangeSubscriptionPlan(ctx, ownerID, basic.ID)
	assert.ErrorIs(t, err, ErrSamePlan)

	second, err := svc.ChangeSubscriptionPlan(ctx, ownerID, pro.ID)
	require.NoError(t, err)
	assert.Equal(t, pro.ID, second.PlanID)
	assert.Equal(t, 10, second.MaxProperties)

	old, err := NewRepository(db).GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)
	assert.NotNil(t, old.CancelledAt)
}

func TestChangeSubscriptionPlan_RollsBackOnFailure(t *testing.T) {
	svc, _, db := setupTestService(t)
	ctx := context.Background()
	ownerID := createOwner(t, db, "owner@example.com")
	basic := createPlan(t, db, "BASIC", 10, 3, true)
	retired := createPlan(t, db, "RETIRED", 10, 3, false)

	first, err := svc.CreateSubscription(ctx, ownerID, basic.ID, true)
	require.NoError(t, err)

	_, err = svc.ChangeSubscriptionPlan(ctx, ownerID, retired.ID)
	assert.ErrorIs(t, err, ErrPlanInactive)

	current, err := NewRepository(db).GetActiveByOwnerID(ctx, ownerID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, first.ID, current.ID)
	assert.Nil(t, current.CancelledAt)
}

func TestChangeSubscriptionPlan_NoActive(t *testing.T) {
	svc, _, db := setupTestService(t)
	ownerID := createOwner(t, db, "owner@example.com")
	plan := createPlan(t, db, "BASIC", 10, 3, true)

	_, err := svc.ChangeSubscriptionPlan(context.Background(), ownerID, plan.ID)
	assert.ErrorIs(t, err, ErrNoActiveSubscription)
}

func TestCancelSubscription(t *testing.T) {
	svc, _, db := setupTestService(t)
	ctx := context.Background()
	ownerID := createOwner(t, db, "owner@example.com")
	otherID := createOwner(t, db, "other@example.com")
	plan := createPlan(t, db, "BASIC", 10, 3, true)

	sub, err := svc.CreateSubscription(ctx, ownerID, plan.ID, true)
	require.NoError(t, err)

	_, err = svc.CancelSubscription(ctx, sub.ID, otherID, false)
	assert.ErrorIs(t, err, ErrNotSubscriptionOwner)

	cancelled, err := svc.CancelSubscription(ctx, sub.ID, ownerID, false)
	require.NoError(t, err)
	assert.False(t, cancelled.IsActive)
	assert.NotNil(t, cancelled.CancelledAt)

	// a second cancel is accepted
	_, err = svc.CancelSubscription(ctx, sub.ID, otherID, true)
	assert.NoError(t, err)

	_, err = svc.CancelSubscription(ctx, "missing", ownerID, true)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestCheckExpiredSubscriptions(t *testing.T) {
	svc, _, db := setupTestService(t)
	ctx := context.Background()
	plan := createPlan(t, db, "BASIC", 10, 3, true)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	expiring, err := svc.CreateSubscription(ctx, createOwner(t, db, "a@example.com"), plan.ID, true)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.AddDate(0, 0, 20) }
	fresh, err := svc.CreateSubscription(ctx, createOwner(t, db, "b@example.com"), plan.ID, true)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.AddDate(0, 0, 31) }
	n, err := svc.CheckExpiredSubscriptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	repo := NewRepository(db)
	got, err := repo.GetByID(ctx, expiring.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Nil(t, got.CancelledAt)

	got, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	n, err = svc.CheckExpiredSubscriptions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlans(t *testing.T) {
	svc, _, db := setupTestService(t)
	ctx := context.Background()
	createPlan(t, db, "HIDDEN", 1, 1, false)

	inactive := false
	plan, err := svc.CreatePlan(ctx, CreatePlanRequest{Type: "pro", Name: "Pro", Price: 20, DurationDays: 30, MaxProperties: 5})
	require.NoError(t, err)
	assert.Equal(t, "PRO", plan.Type)
	assert.True(t, plan.IsActive)

	_, err = svc.CreatePlan(ctx, CreatePlanRequest{Type: "PRO", Name: "Dup", DurationDays: 1, MaxProperties: 1})
	assert.ErrorIs(t, err, ErrPlanTypeTaken)

	price := 25.0
	updated, err := svc.UpdatePlan(ctx, plan.ID, UpdatePlanRequest{Price: &price, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Price)
	assert.False(t, updated.IsActive)

	visible, err := svc.ListPlans(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := svc.ListPlans(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetMySubscription(t *testing.T) {
	svc, counter, db := setupTestService(t)
	ctx := context.Background()
	ownerID := createOwner(t, db, "owner@example.com")
	plan := createPlan(t, db, "BASIC", 10, 3, true)

	_, err := svc.GetMySubscription(ctx, ownerID)
	assert.ErrorIs(t, err, ErrNoActiveSubscription)

	sub, err := svc.CreateSubscription(ctx, ownerID, plan.ID, false)
	require.NoError(t, err)
	counter.counts[ownerID] = 1

	view, err := svc.GetMySubscription(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, view.Subscription.ID)
	assert.Equal(t, "BASIC", view.Plan.Type)
	assert.False(t, view.Entitlement.Allowed)

	_, err = svc.MarkPaid(ctx, sub.ID)
	require.NoError(t, err)
	view, err = svc.GetMySubscription(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, view.Entitlement.Allowed)
	assert.Equal(t, 2, *view.Entitlement.Remaining)
}
