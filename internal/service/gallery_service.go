package service

import (
	"context"
	"errors"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"
	"Thread_of_Hope/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type GalleryService struct {
	gallery GalleryRepository
	uploads uploadCleaner
}

func NewGalleryService(gallery GalleryRepository, files storage.Store, log logrus.FieldLogger) *GalleryService {
	return &GalleryService{gallery: gallery, uploads: uploadCleaner{files: files, log: log}}
}

func (s *GalleryService) List(ctx context.Context, category string, page pkg.Page) ([]model.GalleryItem, pkg.Pagination, error) {
	list, total, err := s.gallery.List(ctx, model.GalleryFilter{Category: category}, page)
	if err != nil {
		return nil, pkg.Pagination{}, pkg.Internal("Failed to fetch gallery items", err)
	}
	if list == nil {
		list = []model.GalleryItem{}
	}
	return list, page.Result(total), nil
}

func (s *GalleryService) Get(ctx context.Context, id string) (*model.GalleryItem, error) {
	g, err := s.gallery.FindByID(ctx, id)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.NotFound("Gallery item not found")
	}
	if err != nil {
		return nil, pkg.Internal("Failed to fetch gallery item", err)
	}
	return g, nil
}

// Create 未指定分类时归入 general
func (s *GalleryService) Create(ctx context.Context, in GalleryInput) (*model.GalleryItem, error) {
	title, image := value(in.Title), value(in.ImagePath)
	if title == "" || image == "" {
		return nil, pkg.BadRequest("Missing required fields")
	}
	category := value(in.Category)
	if category == "" {
		category = model.DefaultGalleryCategory
	}
	g := &model.GalleryItem{
		ID:          uuid.NewString(),
		Title:       title,
		Description: nonEmpty(in.Description),
		ImagePath:   image,
		Category:    category,
		IsFeatured:  in.IsFeatured != nil && *in.IsFeatured,
	}
	if err := s.gallery.Create(ctx, g); err != nil {
		return nil, pkg.Internal("Failed to create gallery item", err)
	}
	return g, nil
}

func (s *GalleryService) Update(ctx context.Context, id string, in GalleryInput) (*model.GalleryItem, error) {
	var prev *model.GalleryItem
	if nonEmpty(in.ImagePath) != nil {
		prev, _ = s.gallery.FindByID(ctx, id)
	}
	g, err := s.gallery.Update(ctx, id, model.GalleryPatch{
		Title:       nonEmpty(in.Title),
		Description: in.Description,
		ImagePath:   nonEmpty(in.ImagePath),
		Category:    nonEmpty(in.Category),
		IsFeatured:  in.IsFeatured,
	})
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.NotFound("Gallery item not found")
	}
	if err != nil {
		return nil, pkg.Internal("Failed to update gallery item", err)
	}
	if prev != nil {
		s.uploads.release(ctx, galleryFiles(prev), galleryFiles(g))
	}
	return g, nil
}

func (s *GalleryService) Delete(ctx context.Context, id string) error {
	prev, err := s.gallery.FindByID(ctx, id)
	if err == nil {
		err = s.gallery.Delete(ctx, id)
	}
	if errors.Is(err, pkg.ErrNotFound) {
		return pkg.NotFound("Gallery item not found")
	}
	if err != nil {
		return pkg.Internal("Failed to delete gallery item", err)
	}
	s.uploads.release(ctx, galleryFiles(prev), nil)
	return nil
}
