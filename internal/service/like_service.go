package service

import (
	"context"
	"errors"

	"Thread_of_Hope/internal/metrics"
	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"
)

type LikeService struct {
	likes   LikeRepository
	stories StoryRepository
}

func NewLikeService(likes LikeRepository, stories StoryRepository) *LikeService {
	return &LikeService{likes: likes, stories: stories}
}

func parseClient(raw string, required bool) (model.ClientToken, error) {
	if raw == "" {
		if required {
			return "", pkg.BadRequest("Client ID required")
		}
		return "", nil
	}
	tok, ok := model.ParseClientToken(raw)
	if !ok {
		return "", pkg.BadRequest("Invalid client ID")
	}
	return tok, nil
}

// Toggle 同一个 clientId 再点一次即取消
func (s *LikeService) Toggle(ctx context.Context, storyID, rawClient string) (model.LikeState, error) {
	client, err := parseClient(rawClient, true)
	if err != nil {
		return model.LikeState{}, err
	}
	state, err := s.likes.Toggle(ctx, storyID, client)
	if errors.Is(err, pkg.ErrNotFound) {
		return model.LikeState{}, pkg.NotFound("Curhat not found")
	}
	if err != nil {
		return model.LikeState{}, pkg.Internal("Failed to toggle like", err)
	}
	metrics.RecordLike(state.IsLiked)
	return state, nil
}

// Status clientId 可选，不传时 isLiked 恒为 false
func (s *LikeService) Status(ctx context.Context, storyID, rawClient string) (model.LikeState, error) {
	client, err := parseClient(rawClient, false)
	if err != nil {
		return model.LikeState{}, err
	}
	if _, err := s.stories.FindByID(ctx, storyID); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return model.LikeState{}, pkg.NotFound("Curhat not found")
		}
		return model.LikeState{}, pkg.Internal("Failed to fetch like status", err)
	}
	state, err := s.likes.State(ctx, storyID, client)
	if err != nil {
		return model.LikeState{}, pkg.Internal("Failed to fetch like status", err)
	}
	return state, nil
}
