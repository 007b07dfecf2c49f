package mysql

import (
	"context"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"gorm.io/gorm"
)

// 电子书、活动、相册：不需要审核的内容，只有管理员可写

type EbookRepository struct {
	DB *gorm.DB
}

func (r *EbookRepository) Create(ctx context.Context, e *model.Ebook) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EbookRepository) FindByID(ctx context.Context, id string) (*model.Ebook, error) {
	var e model.Ebook
	if err := r.DB.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *EbookRepository) List(ctx context.Context, f model.EbookFilter, page pkg.Page) ([]model.Ebook, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.PublishedOnly {
			db = db.Where("is_published = ?", true)
		}
		if f.Category != "" && f.Category != "all" {
			db = db.Where("category = ?", f.Category)
		}
		return db
	}
	var total int64
	if err := r.DB.WithContext(ctx).Model(&model.Ebook{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Ebook
	err := r.DB.WithContext(ctx).Scopes(scope, paginate(page)).Order("created_at DESC, id DESC").Find(&list).Error
	return list, total, err
}

func (r *EbookRepository) Update(ctx context.Context, id string, patch model.EbookPatch) (*model.Ebook, error) {
	var e model.Ebook
	if err := updateByID(ctx, r.DB, &e, id, patch.Columns()); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EbookRepository) Delete(ctx context.Context, id string) error {
	return translate(deleteByID(ctx, r.DB, &model.Ebook{}, id))
}

// Increment 原子加一，counter 只能是 view_count / download_count
func (r *EbookRepository) Increment(ctx context.Context, id, counter string) error {
	res := r.DB.WithContext(ctx).Model(&model.Ebook{}).
		Where("id = ?", id).
		UpdateColumn(counter, gorm.Expr(counter+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.ErrNotFound
	}
	return nil
}

func (r *EbookRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Ebook{}).Count(&n).Error
	return n, err
}

type EventRepository struct {
	DB *gorm.DB
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	if err := r.DB.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// List 按活动日期升序
func (r *EventRepository) List(ctx context.Context, f model.EventFilter, page pkg.Page) ([]model.Event, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.From != nil {
			db = db.Where("event_date >= ?", *f.From)
		}
		return db
	}
	var total int64
	if err := r.DB.WithContext(ctx).Model(&model.Event{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Event
	err := r.DB.WithContext(ctx).Scopes(scope, paginate(page)).Order("event_date ASC, id ASC").Find(&list).Error
	return list, total, err
}

func (r *EventRepository) Update(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	var e model.Event
	if err := updateByID(ctx, r.DB, &e, id, patch.Columns()); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return translate(deleteByID(ctx, r.DB, &model.Event{}, id))
}

type GalleryRepository struct {
	DB *gorm.DB
}

func (r *GalleryRepository) Create(ctx context.Context, g *model.GalleryItem) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *GalleryRepository) FindByID(ctx context.Context, id string) (*model.GalleryItem, error) {
	var g model.GalleryItem
	if err := r.DB.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *GalleryRepository) List(ctx context.Context, f model.GalleryFilter, page pkg.Page) ([]model.GalleryItem, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Category != "" && f.Category != "all" {
			db = db.Where("category = ?", f.Category)
		}
		return db
	}
	var total int64
	if err := r.DB.WithContext(ctx).Model(&model.GalleryItem{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.GalleryItem
	err := r.DB.WithContext(ctx).Scopes(scope, paginate(page)).Order("created_at DESC, id DESC").Find(&list).Error
	return list, total, err
}

func (r *GalleryRepository) Update(ctx context.Context, id string, patch model.GalleryPatch) (*model.GalleryItem, error) {
	var g model.GalleryItem
	if err := updateByID(ctx, r.DB, &g, id, patch.Columns()); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GalleryRepository) Delete(ctx context.Context, id string) error {
	return translate(deleteByID(ctx, r.DB, &model.GalleryItem{}, id))
}
