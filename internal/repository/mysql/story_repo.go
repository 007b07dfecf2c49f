package mysql

import (
	"context"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoryRepository struct {
	DB *gorm.DB
}

// Create 新故事和 story.submitted 事件同一事务写入
func (r *StoryRepository) Create(ctx context.Context, s *model.Story) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventStorySubmitted, model.StoryEvent(s, time.Now()))
	})
}

func (r *StoryRepository) FindByID(ctx context.Context, id string) (*model.Story, error) {
	var s model.Story
	if err := r.DB.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// List status 为空时不过滤，按创建时间倒序
func (r *StoryRepository) List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.Story, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&model.Story{}).Scopes(withStatus(status)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Story
	err := r.DB.WithContext(ctx).
		Scopes(withStatus(status), paginate(page)).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, total, err
}

// Update 行锁后局部更新，审核状态变化时写 outbox
func (r *StoryRepository) Update(ctx context.Context, id string, patch model.StoryPatch) (*model.Story, error) {
	var s model.Story
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "id = ?", id).Error; err != nil {
			return err
		}
		prev := s.Status
		cols := patch.Columns()
		if len(cols) == 0 {
			return nil
		}
		if err := tx.Model(&model.Story{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		if err := tx.First(&s, "id = ?", id).Error; err != nil {
			return err
		}
		if s.Status != prev {
			return insertOutbox(tx, model.StatusEvent(model.SubjectStory, s.Status), model.StoryEvent(&s, time.Now()))
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// Delete 连同评论和点赞一起删除
func (r *StoryRepository) Delete(ctx context.Context, id string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteByID(ctx, tx, &model.Story{}, id); err != nil {
			return err
		}
		if err := tx.Where("story_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("story_id = ?", id).Delete(&model.StoryLike{}).Error
	})
	return translate(err)
}

func (r *StoryRepository) Count(ctx context.Context, status model.ModerationStatus) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Story{}).Scopes(withStatus(status)).Count(&n).Error
	return n, err
}
