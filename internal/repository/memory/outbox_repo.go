package memory

import (
	"context"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"
)

const maxOutboxRetry = 5

type OutboxRepository struct {
	s *Store
}

func (r *OutboxRepository) ListPending(ctx context.Context, batchSize int) ([]model.ModerationOutbox, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.ModerationOutbox
	for _, ob := range r.s.outbox {
		if len(out) >= batchSize {
			break
		}
		if ob.Status == model.OutboxPending || (ob.Status == model.OutboxFailed && ob.Retry < maxOutboxRetry) {
			out = append(out, *ob)
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.update(id, func(ob *model.ModerationOutbox) { ob.Status = model.OutboxSent })
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.update(id, func(ob *model.ModerationOutbox) {
		ob.Status = model.OutboxFailed
		ob.Retry++
	})
}

// All 测试断言用，按写入顺序
func (r *OutboxRepository) All() []model.ModerationOutbox {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.ModerationOutbox, 0, len(r.s.outbox))
	for _, ob := range r.s.outbox {
		out = append(out, *ob)
	}
	return out
}

func (r *OutboxRepository) update(id uint64, fn func(*model.ModerationOutbox)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ob := range r.s.outbox {
		if ob.ID == id {
			fn(ob)
			ob.UpdatedAt = r.s.now()
			return nil
		}
	}
	return pkg.ErrNotFound
}
