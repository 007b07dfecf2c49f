package service

import (
	"context"
	"errors"

	"Thread_of_Hope/internal/metrics"
	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/google/uuid"
)

type CommentService struct {
	comments CommentRepository
	stories  StoryRepository
}

func NewCommentService(comments CommentRepository, stories StoryRepository) *CommentService {
	return &CommentService{comments: comments, stories: stories}
}

// Submit 故事必须存在（是否已审核不限），作者名为空即匿名
func (s *CommentService) Submit(ctx context.Context, storyID string, in CommentSubmission) (*model.Comment, error) {
	content := in.Content.String()
	if content == "" {
		return nil, pkg.BadRequest("Content is required")
	}
	if _, err := s.stories.FindByID(ctx, storyID); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, pkg.NotFound("Curhat not found")
		}
		return nil, pkg.Internal("Failed to post comment", err)
	}
	c := &model.Comment{
		ID:         uuid.NewString(),
		Content:    content,
		AuthorName: optional(first(in.AuthorName, in.AuthorNameAlt)),
		StoryID:    storyID,
	}
	c.SetStatus(model.StatusPending)
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, pkg.Internal("Failed to post comment", err)
	}
	metrics.RecordSubmission(model.SubjectComment)
	return c, nil
}

// ListForStory 公开读取某个已通过故事下已通过的评论
func (s *CommentService) ListForStory(ctx context.Context, storyID string) ([]model.Comment, error) {
	story, err := s.stories.FindByID(ctx, storyID)
	if errors.Is(err, pkg.ErrNotFound) || (err == nil && !story.IsApproved) {
		return nil, pkg.NotFound("Curhat not found")
	}
	if err != nil {
		return nil, pkg.Internal("Failed to fetch comments", err)
	}
	list, err := s.comments.ListByStory(ctx, storyID, model.StatusApproved)
	if err != nil {
		return nil, pkg.Internal("Failed to fetch comments", err)
	}
	if list == nil {
		list = []model.Comment{}
	}
	return list, nil
}

func (s *CommentService) List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.Comment, pkg.Pagination, error) {
	list, total, err := s.comments.List(ctx, status, page)
	if err != nil {
		return nil, pkg.Pagination{}, pkg.Internal("Failed to fetch comments", err)
	}
	if list == nil {
		list = []model.Comment{}
	}
	return list, page.Result(total), nil
}

func (s *CommentService) SetApproval(ctx context.Context, id string, d Decision) (*model.Comment, error) {
	status, err := d.Resolve()
	if err != nil {
		return nil, err
	}
	c, err := s.comments.SetStatus(ctx, id, status)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.NotFound("Comment not found")
	}
	if err != nil {
		return nil, pkg.Internal("Failed to update comment", err)
	}
	metrics.RecordDecision(model.SubjectComment, string(status))
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, id string) error {
	err := s.comments.Delete(ctx, id)
	if errors.Is(err, pkg.ErrNotFound) {
		return pkg.NotFound("Comment not found")
	}
	if err != nil {
		return pkg.Internal("Failed to delete comment", err)
	}
	return nil
}
