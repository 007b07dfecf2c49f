package memory

import (
	"context"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"
)

type StoryRepository struct {
	s *Store
}

func (r *StoryRepository) Create(ctx context.Context, st *model.Story) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	cp := *st
	r.s.stories[st.ID] = &cp
	return r.s.appendOutbox(model.EventStorySubmitted, model.StoryEvent(st, r.s.now()))
}

func (r *StoryRepository) FindByID(ctx context.Context, id string) (*model.Story, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.stories[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *StoryRepository) List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.Story, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []model.Story
	for _, st := range r.s.stories {
		if matchStatus(status, st.Status) {
			all = append(all, *st)
		}
	}
	newestFirst(all, func(st model.Story) (time.Time, string) { return st.CreatedAt, st.ID })
	return window(all, page), int64(len(all)), nil
}

func (r *StoryRepository) Update(ctx context.Context, id string, patch model.StoryPatch) (*model.Story, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.stories[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	if len(patch.Columns()) == 0 {
		cp := *st
		return &cp, nil
	}
	prev := st.Status
	patch.Apply(st)
	st.UpdatedAt = r.s.now()
	if st.Status != prev {
		if err := r.s.appendOutbox(model.StatusEvent(model.SubjectStory, st.Status), model.StoryEvent(st, r.s.now())); err != nil {
			return nil, err
		}
	}
	cp := *st
	return &cp, nil
}

func (r *StoryRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stories[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.s.stories, id)
	for cid, c := range r.s.comments {
		if c.StoryID == id {
			delete(r.s.comments, cid)
		}
	}
	for k := range r.s.likes {
		if k.storyID == id {
			delete(r.s.likes, k)
		}
	}
	return nil
}

func (r *StoryRepository) Count(ctx context.Context, status model.ModerationStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, st := range r.s.stories {
		if matchStatus(status, st.Status) {
			n++
		}
	}
	return n, nil
}
