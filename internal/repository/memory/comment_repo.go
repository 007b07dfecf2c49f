package memory

import (
	"context"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"
)

type CommentRepository struct {
	s *Store
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	cp := *c
	r.s.comments[c.ID] = &cp
	return r.s.appendOutbox(model.EventCommentSubmitted, model.CommentEvent(c, r.s.now()))
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CommentRepository) ListByStory(ctx context.Context, storyID string, status model.ModerationStatus) ([]model.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Comment
	for _, c := range r.s.comments {
		if c.StoryID == storyID && matchStatus(status, c.Status) {
			out = append(out, *c)
		}
	}
	newestFirst(out, func(c model.Comment) (time.Time, string) { return c.CreatedAt, c.ID })
	return out, nil
}

func (r *CommentRepository) List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.Comment, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []model.Comment
	for _, c := range r.s.comments {
		if matchStatus(status, c.Status) {
			all = append(all, *c)
		}
	}
	newestFirst(all, func(c model.Comment) (time.Time, string) { return c.CreatedAt, c.ID })
	out := window(all, page)
	for i := range out {
		if st, ok := r.s.stories[out[i].StoryID]; ok {
			out[i].Story = &model.StorySummary{ID: st.ID, Title: st.Title, AuthorName: st.AuthorName}
		}
	}
	return out, int64(len(all)), nil
}

func (r *CommentRepository) SetStatus(ctx context.Context, id string, status model.ModerationStatus) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	if c.Status != status {
		c.SetStatus(status)
		c.UpdatedAt = r.s.now()
		if err := r.s.appendOutbox(model.StatusEvent(model.SubjectComment, status), model.CommentEvent(c, r.s.now())); err != nil {
			return nil, err
		}
	}
	cp := *c
	return &cp, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *CommentRepository) Count(ctx context.Context, status model.ModerationStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, c := range r.s.comments {
		if matchStatus(status, c.Status) {
			n++
		}
	}
	return n, nil
}
