package memory

import (
	"context"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/google/uuid"
)

type LikeRepository struct {
	s *Store
}

func (r *LikeRepository) Toggle(ctx context.Context, storyID string, client model.ClientToken) (model.LikeState, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stories[storyID]; !ok {
		return model.LikeState{}, pkg.ErrNotFound
	}
	key := likeKey{storyID: storyID, clientID: string(client)}
	liked := false
	if _, ok := r.s.likes[key]; ok {
		delete(r.s.likes, key)
	} else {
		r.s.likes[key] = &model.StoryLike{
			ID: uuid.NewString(), StoryID: storyID, ClientID: string(client), CreatedAt: r.s.now(),
		}
		liked = true
	}
	return model.LikeState{Likes: r.countLocked(storyID), IsLiked: liked}, nil
}

func (r *LikeRepository) State(ctx context.Context, storyID string, client model.ClientToken) (model.LikeState, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, liked := r.s.likes[likeKey{storyID: storyID, clientID: string(client)}]
	return model.LikeState{Likes: r.countLocked(storyID), IsLiked: client != "" && liked}, nil
}

func (r *LikeRepository) CountByStories(ctx context.Context, ids []string) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make(map[string]int64, len(ids))
	for k := range r.s.likes {
		if _, ok := want[k.storyID]; ok {
			out[k.storyID]++
		}
	}
	return out, nil
}

func (r *LikeRepository) countLocked(storyID string) int64 {
	var n int64
	for k := range r.s.likes {
		if k.storyID == storyID {
			n++
		}
	}
	return n
}
