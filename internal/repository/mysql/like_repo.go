package mysql

import (
	"context"
	"errors"

	"Thread_of_Hope/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	DB *gorm.DB
}

// Toggle 切换 (story, client) 的点赞状态并返回最新计数。
// select for update 锁住这一对，同一客户端的并发请求串行执行
func (r *LikeRepository) Toggle(ctx context.Context, storyID string, client model.ClientToken) (model.LikeState, error) {
	var state model.LikeState
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var story model.Story
		if err := tx.Select("id").First(&story, "id = ?", storyID).Error; err != nil {
			return err
		}
		var like model.StoryLike
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("story_id = ? AND client_id = ?", storyID, string(client)).
			First(&like).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			like = model.StoryLike{ID: uuid.NewString(), StoryID: storyID, ClientID: string(client)}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			state.IsLiked = true
		case err != nil:
			return err
		default:
			if err := tx.Delete(&model.StoryLike{}, "id = ?", like.ID).Error; err != nil {
				return err
			}
			state.IsLiked = false
		}
		return tx.Model(&model.StoryLike{}).Where("story_id = ?", storyID).Count(&state.Likes).Error
	})
	if err != nil {
		return model.LikeState{}, translate(err)
	}
	return state, nil
}

// State 只读查询，不校验故事是否存在
func (r *LikeRepository) State(ctx context.Context, storyID string, client model.ClientToken) (model.LikeState, error) {
	var state model.LikeState
	db := r.DB.WithContext(ctx)
	if err := db.Model(&model.StoryLike{}).Where("story_id = ?", storyID).Count(&state.Likes).Error; err != nil {
		return state, err
	}
	if client == "" {
		return state, nil
	}
	var mine int64
	if err := db.Model(&model.StoryLike{}).
		Where("story_id = ? AND client_id = ?", storyID, string(client)).
		Count(&mine).Error; err != nil {
		return state, err
	}
	state.IsLiked = mine > 0
	return state, nil
}

// CountByStories 列表页批量统计点赞数，没有点赞的故事不在结果里
func (r *LikeRepository) CountByStories(ctx context.Context, ids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		StoryID string
		N       int64
	}
	if err := r.DB.WithContext(ctx).Model(&model.StoryLike{}).
		Select("story_id, COUNT(*) AS n").
		Where("story_id IN ?", ids).
		Group("story_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.StoryID] = row.N
	}
	return out, nil
}
