package mysql

import (
	"context"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventCommentSubmitted, model.CommentEvent(c, time.Now()))
	})
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ListByStory 某个故事下的评论，最新的在前
func (r *CommentRepository) ListByStory(ctx context.Context, storyID string, status model.ModerationStatus) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Scopes(withStatus(status)).
		Where("story_id = ?", storyID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// List 管理后台的评论列表，附带所属故事摘要
func (r *CommentRepository) List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.Comment, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&model.Comment{}).Scopes(withStatus(status)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Comment
	if err := r.DB.WithContext(ctx).
		Scopes(withStatus(status), paginate(page)).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	if err := r.attachStories(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *CommentRepository) attachStories(ctx context.Context, list []model.Comment) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.StoryID)
	}
	var summaries []model.StorySummary
	if err := r.DB.WithContext(ctx).Model(&model.Story{}).
		Select("id", "title", "author_name").
		Where("id IN ?", ids).
		Find(&summaries).Error; err != nil {
		return err
	}
	byID := make(map[string]model.StorySummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	for i := range list {
		if s, ok := byID[list[i].StoryID]; ok {
			list[i].Story = &s
		}
	}
	return nil
}

// SetStatus 审核评论，状态真正变化才写 outbox
func (r *CommentRepository) SetStatus(ctx context.Context, id string, status model.ModerationStatus) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error; err != nil {
			return err
		}
		if c.Status == status {
			return nil
		}
		if err := tx.Model(&model.Comment{}).Where("id = ?", id).Update("status", status).Error; err != nil {
			return err
		}
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.StatusEvent(model.SubjectComment, status), model.CommentEvent(&c, time.Now()))
	})
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	return translate(deleteByID(ctx, r.DB, &model.Comment{}, id))
}

func (r *CommentRepository) Count(ctx context.Context, status model.ModerationStatus) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Comment{}).Scopes(withStatus(status)).Count(&n).Error
	return n, err
}
