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

const DefaultCatalogPageSize = 12

type EbookService struct {
	ebooks  EbookRepository
	uploads uploadCleaner
}

func NewEbookService(ebooks EbookRepository, files storage.Store, log logrus.FieldLogger) *EbookService {
	return &EbookService{ebooks: ebooks, uploads: uploadCleaner{files: files, log: log}}
}

func (s *EbookService) List(ctx context.Context, f model.EbookFilter, page pkg.Page) ([]model.Ebook, pkg.Pagination, error) {
	list, total, err := s.ebooks.List(ctx, f, page)
	if err != nil {
		return nil, pkg.Pagination{}, pkg.Internal("Failed to fetch ebooks", err)
	}
	if list == nil {
		list = []model.Ebook{}
	}
	return list, page.Result(total), nil
}

// Get 未发布的电子书只有管理员视图可见
func (s *EbookService) Get(ctx context.Context, id string, adminView bool) (*model.Ebook, error) {
	e, err := s.ebooks.FindByID(ctx, id)
	if errors.Is(err, pkg.ErrNotFound) || (err == nil && !e.IsPublished && !adminView) {
		return nil, pkg.NotFound("E-book not found")
	}
	if err != nil {
		return nil, pkg.Internal("Failed to fetch ebook", err)
	}
	return e, nil
}

// Create 新建的电子书默认不发布
func (s *EbookService) Create(ctx context.Context, in EbookInput) (*model.Ebook, error) {
	title, desc, author, category, url := value(in.Title), value(in.Description), value(in.Author), value(in.Category), value(in.ExternalURL)
	if title == "" || desc == "" || author == "" || category == "" || url == "" {
		return nil, pkg.BadRequest("Missing required fields")
	}
	e := &model.Ebook{
		ID:             uuid.NewString(),
		Title:          title,
		Description:    desc,
		Author:         author,
		Category:       category,
		CoverImagePath: nonEmpty(in.CoverImagePath),
		ExternalURL:    url,
	}
	if err := s.ebooks.Create(ctx, e); err != nil {
		return nil, pkg.Internal("Failed to create ebook", err)
	}
	return e, nil
}

func (s *EbookService) Update(ctx context.Context, id string, in EbookInput) (*model.Ebook, error) {
	var prev *model.Ebook
	if nonEmpty(in.CoverImagePath) != nil || nonEmpty(in.ExternalURL) != nil {
		// 找不到时交给 Update 返回 404
		prev, _ = s.ebooks.FindByID(ctx, id)
	}
	e, err := s.ebooks.Update(ctx, id, model.EbookPatch{
		Title:          nonEmpty(in.Title),
		Description:    nonEmpty(in.Description),
		Author:         nonEmpty(in.Author),
		Category:       nonEmpty(in.Category),
		CoverImagePath: nonEmpty(in.CoverImagePath),
		ExternalURL:    nonEmpty(in.ExternalURL),
		IsPublished:    in.IsPublished,
		IsFeatured:     in.IsFeatured,
	})
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.NotFound("E-book not found")
	}
	if err != nil {
		return nil, pkg.Internal("Failed to update ebook", err)
	}
	if prev != nil {
		s.uploads.release(ctx, ebookFiles(prev), ebookFiles(e))
	}
	return e, nil
}

func (s *EbookService) Delete(ctx context.Context, id string) error {
	prev, err := s.ebooks.FindByID(ctx, id)
	if err == nil {
		err = s.ebooks.Delete(ctx, id)
	}
	if errors.Is(err, pkg.ErrNotFound) {
		return pkg.NotFound("E-book not found")
	}
	if err != nil {
		return pkg.Internal("Failed to delete ebook", err)
	}
	s.uploads.release(ctx, ebookFiles(prev), nil)
	return nil
}

func (s *EbookService) RecordView(ctx context.Context, id string) error {
	return s.increment(ctx, id, model.EbookViewCounter, "Failed to update view count")
}

func (s *EbookService) RecordDownload(ctx context.Context, id string) error {
	return s.increment(ctx, id, model.EbookDownloadCounter, "Failed to update download count")
}

func (s *EbookService) increment(ctx context.Context, id, counter, msg string) error {
	err := s.ebooks.Increment(ctx, id, counter)
	if errors.Is(err, pkg.ErrNotFound) {
		return pkg.NotFound("E-book not found")
	}
	if err != nil {
		return pkg.Internal(msg, err)
	}
	return nil
}
