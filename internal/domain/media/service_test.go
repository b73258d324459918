package media

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"staysphere/internal/database"
	"staysphere/internal/pkg/apperr"
	"staysphere/internal/pkg/pagination"
	"staysphere/internal/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) PresignPut(ctx context.Context, key, contentType string, size int64, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, size, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

var _ storage.ObjectStore = (*MockStore)(nil)

var testNow = time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:media_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Object{}))
	return db
}

func setup(t *testing.T) (*Service, *MockStore) {
	t.Helper()
	store := new(MockStore)
	svc := NewService(NewRepository(setupTestDB(t)), store, 15*time.Minute, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc, store
}

var keyPattern = regexp.MustCompile(`^properties/7/[0-9A-HJKMNP-TV-Z]{26}\.webp$`)

func TestRequestUpload(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	store.On("PresignPut", ctx, mock.MatchedBy(keyPattern.MatchString), "image/webp", int64(2048), 15*time.Minute).
		Return("https://bucket.example/put", nil).Once()

	ticket, err := svc.RequestUpload(ctx, 7, UploadRequest{FileName: "../living room.webp", ContentType: "Image/WebP; charset=binary", Size: 2048})
	require.NoError(t, err)

	assert.Regexp(t, keyPattern, ticket.Object.Key)
	assert.Equal(t, "living room.webp", ticket.Object.OriginalName)
	assert.Equal(t, "image/webp", ticket.Object.ContentType)
	assert.Equal(t, "https://bucket.example/put", ticket.UploadURL)
	assert.Equal(t, "PUT", ticket.Method)
	assert.Equal(t, testNow.Add(15*time.Minute), ticket.ExpiresAt)
	store.AssertExpectations(t)

	items, total, err := svc.ListMine(ctx, 7, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, ticket.Object.ID, items[0].ID)
}

func TestRequestUpload_Validation(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  UploadRequest
		want error
	}{
		{"pdf rejected", UploadRequest{ContentType: "application/pdf", Size: 10}, ErrUnsupportedType},
		{"svg rejected", UploadRequest{ContentType: "image/svg+xml", Size: 10}, ErrUnsupportedType},
		{"empty", UploadRequest{ContentType: "image/png", Size: 0}, ErrEmptyFile},
		{"over limit", UploadRequest{ContentType: "image/png", Size: MaxFileSize + 1}, ErrFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RequestUpload(ctx, 7, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}
	store.AssertNotCalled(t, "PresignPut", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestUpload_AtLimit(t *testing.T) {
	svc, store := setup(t)
	store.On("PresignPut", mock.Anything, mock.Anything, "image/gif", int64(MaxFileSize), mock.Anything).
		Return("https://bucket.example/put", nil)

	_, err := svc.RequestUpload(context.Background(), 7, UploadRequest{ContentType: "image/gif", Size: MaxFileSize})
	assert.NoError(t, err)
}

func TestRequestUpload_StoreFailureKeepsNoRecord(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	store.On("PresignPut", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", storage.ErrDisabled)

	_, err := svc.RequestUpload(ctx, 7, UploadRequest{ContentType: "image/png", Size: 10})
	assert.ErrorIs(t, err, storage.ErrDisabled)

	_, total, err := svc.ListMine(ctx, 7, pagination.Params{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestViewURLAndDelete(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	store.On("PresignPut", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://bucket.example/put", nil)
	ticket, err := svc.RequestUpload(ctx, 7, UploadRequest{ContentType: "image/jpeg", Size: 10})
	require.NoError(t, err)
	key := ticket.Object.Key

	store.On("PresignGet", ctx, key, 15*time.Minute).Return("https://bucket.example/get", nil)
	v, err := svc.ViewURL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example/get", v.URL)

	_, err = svc.ViewURL(ctx, "properties/7/missing.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, ticket.Object.ID, 8, false), ErrNotOwner)

	store.On("Delete", ctx, key).Return(errors.New("s3 unavailable")).Once()
	assert.Error(t, svc.Delete(ctx, ticket.Object.ID, 7, false))
	_, err = svc.ViewURL(ctx, key)
	assert.NoError(t, err, "record stays when the object could not be removed")

	store.On("Delete", ctx, key).Return(nil).Once()
	require.NoError(t, svc.Delete(ctx, ticket.Object.ID, 0, true))
	_, err = svc.ViewURL(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
