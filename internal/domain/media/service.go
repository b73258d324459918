package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"staysphere/internal/pkg/pagination"
	"staysphere/internal/pkg/storage"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const MaxFileSize = 10 * 1024 * 1024

// allowedTypes maps accepted content types to the key extension.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Service struct {
	repo   Repository
	store  storage.ObjectStore
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, store storage.ObjectStore, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RequestUpload records the object and returns a presigned PUT for it.
// The record is written before the bytes arrive.
func (s *Service) RequestUpload(ctx context.Context, ownerID int64, req UploadRequest) (*UploadTicket, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(req.ContentType, ";")[0]))
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}
	if req.Size <= 0 {
		return nil, ErrEmptyFile
	}
	if req.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	now := s.now()
	key := objectKey(ownerID, ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()), ext)
	url, err := s.store.PresignPut(ctx, key, contentType, req.Size, s.ttl)
	if err != nil {
		return nil, err
	}

	obj := &Object{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Key:          key,
		OriginalName: filepath.Base(strings.TrimSpace(req.FileName)),
		ContentType:  contentType,
		Size:         req.Size,
	}
	if obj.OriginalName == "." {
		obj.OriginalName = ""
	}
	if err := s.repo.Create(ctx, obj); err != nil {
		return nil, err
	}

	s.logger.Info("media upload requested",
		zap.Int64("owner_id", ownerID),
		zap.String("key", key),
		zap.Int64("size", req.Size),
	)
	return &UploadTicket{
		Object:    obj,
		UploadURL: url,
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": contentType},
		ExpiresAt: now.Add(s.ttl),
	}, nil
}

// ViewURL presigns a GET for a known key.
func (s *Service) ViewURL(ctx context.Context, key string) (*ViewURL, error) {
	obj, err := s.repo.GetByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, obj.Key, s.ttl)
	if err != nil {
		return nil, err
	}
	return &ViewURL{Key: obj.Key, URL: url, ExpiresAt: s.now().Add(s.ttl)}, nil
}

// Delete removes the stored object first, then its record.
func (s *Service) Delete(ctx context.Context, id string, callerID int64, isAdmin bool) error {
	obj, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && obj.OwnerID != callerID {
		return ErrNotOwner
	}
	if err := s.store.Delete(ctx, obj.Key); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, obj.ID); err != nil {
		return err
	}
	s.logger.Info("media deleted", zap.String("key", obj.Key), zap.Int64("by", callerID))
	return nil
}

func (s *Service) ListMine(ctx context.Context, ownerID int64, params pagination.Params) ([]Object, int64, error) {
	return s.repo.ListByOwner(ctx, ownerID, params)
}

func objectKey(ownerID int64, id ulid.ULID, ext string) string {
	return fmt.Sprintf("properties/%d/%s%s", ownerID, id.String(), ext)
}
