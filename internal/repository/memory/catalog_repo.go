package memory

import (
	"context"
	"sort"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"
)

type EbookRepository struct {
	s *Store
}

func (r *EbookRepository) Create(ctx context.Context, e *model.Ebook) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	cp := *e
	r.s.ebooks[e.ID] = &cp
	return nil
}

func (r *EbookRepository) FindByID(ctx context.Context, id string) (*model.Ebook, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.ebooks[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *EbookRepository) List(ctx context.Context, f model.EbookFilter, page pkg.Page) ([]model.Ebook, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []model.Ebook
	for _, e := range r.s.ebooks {
		if f.PublishedOnly && !e.IsPublished {
			continue
		}
		if !model.MatchCategory(f.Category, e.Category) {
			continue
		}
		all = append(all, *e)
	}
	newestFirst(all, func(e model.Ebook) (time.Time, string) { return e.CreatedAt, e.ID })
	return window(all, page), int64(len(all)), nil
}

func (r *EbookRepository) Update(ctx context.Context, id string, patch model.EbookPatch) (*model.Ebook, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.ebooks[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	if len(patch.Columns()) > 0 {
		patch.Apply(e)
		e.UpdatedAt = r.s.now()
	}
	cp := *e
	return &cp, nil
}

func (r *EbookRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.ebooks[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.s.ebooks, id)
	return nil
}

func (r *EbookRepository) Increment(ctx context.Context, id, counter string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.ebooks[id]
	if !ok {
		return pkg.ErrNotFound
	}
	switch counter {
	case model.EbookViewCounter:
		e.ViewCount++
	case model.EbookDownloadCounter:
		e.DownloadCount++
	}
	return nil
}

func (r *EbookRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.ebooks)), nil
}

type EventRepository struct {
	s *Store
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	cp := *e
	r.s.events[e.ID] = &cp
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// List 按活动日期升序
func (r *EventRepository) List(ctx context.Context, f model.EventFilter, page pkg.Page) ([]model.Event, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []model.Event
	for _, e := range r.s.events {
		if f.From != nil && e.EventDate.Before(*f.From) {
			continue
		}
		all = append(all, *e)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].EventDate.Equal(all[j].EventDate) {
			return all[i].EventDate.Before(all[j].EventDate)
		}
		return all[i].ID < all[j].ID
	})
	return window(all, page), int64(len(all)), nil
}

func (r *EventRepository) Update(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	if len(patch.Columns()) > 0 {
		patch.Apply(e)
		e.UpdatedAt = r.s.now()
	}
	cp := *e
	return &cp, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.s.events, id)
	return nil
}

type GalleryRepository struct {
	s *Store
}

func (r *GalleryRepository) Create(ctx context.Context, g *model.GalleryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	cp := *g
	r.s.gallery[g.ID] = &cp
	return nil
}

func (r *GalleryRepository) FindByID(ctx context.Context, id string) (*model.GalleryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.gallery[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *GalleryRepository) List(ctx context.Context, f model.GalleryFilter, page pkg.Page) ([]model.GalleryItem, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []model.GalleryItem
	for _, g := range r.s.gallery {
		if model.MatchCategory(f.Category, g.Category) {
			all = append(all, *g)
		}
	}
	newestFirst(all, func(g model.GalleryItem) (time.Time, string) { return g.CreatedAt, g.ID })
	return window(all, page), int64(len(all)), nil
}

func (r *GalleryRepository) Update(ctx context.Context, id string, patch model.GalleryPatch) (*model.GalleryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.gallery[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	if len(patch.Columns()) > 0 {
		patch.Apply(g)
		g.UpdatedAt = r.s.now()
	}
	cp := *g
	return &cp, nil
}

func (r *GalleryRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.gallery[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.s.gallery, id)
	return nil
}
