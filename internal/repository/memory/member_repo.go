package memory

import (
	"context"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"
)

type MemberRepository struct {
	s *Store
}

// Create 和唯一索引一样按 email 去重
func (r *MemberRepository) Create(ctx context.Context, m *model.CommunityMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.members {
		if existing.Email == m.Email {
			return pkg.ErrDuplicate
		}
	}
	r.s.stamp(&m.ID, &m.JoinedAt, &m.UpdatedAt)
	cp := *m
	r.s.members[m.ID] = &cp
	return r.s.appendOutbox(model.EventMemberJoined, model.MemberEvent(m, r.s.now()))
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (*model.CommunityMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*model.CommunityMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.members {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *MemberRepository) List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.CommunityMember, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []model.CommunityMember
	for _, m := range r.s.members {
		if matchStatus(status, m.Status) {
			all = append(all, *m)
		}
	}
	newestFirst(all, func(m model.CommunityMember) (time.Time, string) { return m.JoinedAt, m.ID })
	return window(all, page), int64(len(all)), nil
}

func (r *MemberRepository) SetStatus(ctx context.Context, id string, status model.ModerationStatus) (*model.CommunityMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	if m.Status != status {
		m.SetStatus(status)
		m.UpdatedAt = r.s.now()
		if err := r.s.appendOutbox(model.StatusEvent(model.SubjectMember, status), model.MemberEvent(m, r.s.now())); err != nil {
			return nil, err
		}
	}
	cp := *m
	return &cp, nil
}

func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.s.members, id)
	return nil
}

func (r *MemberRepository) Count(ctx context.Context, status model.ModerationStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, m := range r.s.members {
		if matchStatus(status, m.Status) {
			n++
		}
	}
	return n, nil
}
