package media

import (
	"context"
	"errors"

	"staysphere/internal/database"
	"staysphere/internal/pkg/pagination"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, o *Object) error
	GetByID(ctx context.Context, id string) (*Object, error)
	GetByKey(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID int64, params pagination.Params) ([]Object, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Object) error {
	return database.Conn(ctx, r.db).Create(o).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Object, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetByKey(ctx context.Context, key string) (*Object, error) {
	return r.first(ctx, "key = ?", key)
}

func (r *repository) first(ctx context.Context, query string, arg any) (*Object, error) {
	var o Object
	err := database.Conn(ctx, r.db).Where(query, arg).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&Object{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrObjectNotFound
	}
	return nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int64, params pagination.Params) ([]Object, int64, error) {
	q := database.Conn(ctx, r.db).Model(&Object{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := params.Normalize()
	var items []Object
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(p.Limit).Offset(p.Offset()).
		Find(&items).Error
	return items, total, err
}
