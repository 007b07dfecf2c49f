package service

import (
	"context"
	"errors"
	"strings"

	"Thread_of_Hope/internal/metrics"
	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/google/uuid"
)

type StoryService struct {
	stories StoryRepository
	likes   LikeRepository
}

func NewStoryService(stories StoryRepository, likes LikeRepository) *StoryService {
	return &StoryService{stories: stories, likes: likes}
}

// Submit 公开提交，审核状态一律为 pending，忽略请求里的任何审核字段
func (s *StoryService) Submit(ctx context.Context, in StorySubmission) (*model.Story, error) {
	title := first(in.Harapan, in.Title)
	content := first(in.Cerita, in.Content)
	author := first(in.Nama, in.AuthorName, in.AuthorNameAlt)
	ageRaw := first(in.Usia, in.AuthorAge, in.AuthorAgeAlt)
	if title == "" || content == "" || author == "" || ageRaw == "" {
		return nil, pkg.BadRequest("All fields are required")
	}
	age, err := parseAge(ageRaw)
	if err != nil {
		return nil, err
	}
	story := &model.Story{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		AuthorName: author,
		AuthorAge:  age,
	}
	story.SetStatus(model.StatusPending)
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, pkg.Internal("Failed to submit story", err)
	}
	metrics.RecordSubmission(model.SubjectStory)
	return story, nil
}

// ResolveStatusFilter 列表的审核状态过滤。非管理员只能看已通过的，覆盖参数被忽略；
// 管理员 approved=false 看全部，status=xxx 看指定状态
func ResolveStatusFilter(admin bool, approved, status string) (model.ModerationStatus, error) {
	if !admin {
		return model.StatusApproved, nil
	}
	if status != "" {
		return ParseStatusFilter(status)
	}
	if approved == "false" {
		return "", nil
	}
	return model.StatusApproved, nil
}

// ParseStatusFilter 管理员列表的 status 参数，空或 all 表示不过滤
func ParseStatusFilter(raw string) (model.ModerationStatus, error) {
	if raw == "" || strings.EqualFold(raw, "all") {
		return "", nil
	}
	st := model.ModerationStatus(strings.ToLower(raw))
	if !st.Valid() {
		return "", pkg.BadRequest("Invalid status")
	}
	return st, nil
}

func (s *StoryService) List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.Story, pkg.Pagination, error) {
	list, total, err := s.stories.List(ctx, status, page)
	if err != nil {
		return nil, pkg.Pagination{}, pkg.Internal("Failed to fetch stories", err)
	}
	if err := s.attachLikes(ctx, list); err != nil {
		return nil, pkg.Pagination{}, pkg.Internal("Failed to fetch stories", err)
	}
	if list == nil {
		list = []model.Story{}
	}
	return list, page.Result(total), nil
}

// Get 未通过审核的故事对公众表现为不存在
func (s *StoryService) Get(ctx context.Context, id string, adminView bool) (*model.Story, error) {
	story, err := s.stories.FindByID(ctx, id)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.NotFound("Story not found")
	}
	if err != nil {
		return nil, pkg.Internal("Internal server error", err)
	}
	if !story.IsApproved && !adminView {
		return nil, pkg.NotFound("Story not found")
	}
	counts, err := s.likes.CountByStories(ctx, []string{story.ID})
	if err != nil {
		return nil, pkg.Internal("Internal server error", err)
	}
	story.Likes = counts[story.ID]
	return story, nil
}

func (s *StoryService) Update(ctx context.Context, id string, in StoryUpdate) (*model.Story, error) {
	patch := model.StoryPatch{
		Title:   in.Title,
		Content: in.Content,
	}
	if in.AuthorName != nil {
		patch.AuthorName = in.AuthorName
	} else {
		patch.AuthorName = in.AuthorNameAlt
	}
	if in.Decision.Present() {
		status, err := in.Decision.Resolve()
		if err != nil {
			return nil, err
		}
		patch.Status = &status
	}
	story, err := s.stories.Update(ctx, id, patch)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.NotFound("Story not found")
	}
	if err != nil {
		return nil, pkg.Internal("Failed to update story", err)
	}
	if patch.Status != nil {
		metrics.RecordDecision(model.SubjectStory, string(*patch.Status))
	}
	return story, nil
}

func (s *StoryService) Delete(ctx context.Context, id string) error {
	err := s.stories.Delete(ctx, id)
	if errors.Is(err, pkg.ErrNotFound) {
		return pkg.NotFound("Story not found")
	}
	if err != nil {
		return pkg.Internal("Failed to delete story", err)
	}
	return nil
}

func (s *StoryService) attachLikes(ctx context.Context, list []model.Story) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	counts, err := s.likes.CountByStories(ctx, ids)
	if err != nil {
		return err
	}
	for i := range list {
		list[i].Likes = counts[list[i].ID]
	}
	return nil
}
