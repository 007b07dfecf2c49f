package model

import "time"

// StoryLike (story_id, client_id) 唯一，切换点赞即插入或删除这一行
type StoryLike struct {
	ID        string    `gorm:"primaryKey;size:36"`
	StoryID   string    `gorm:"size:36;not null;uniqueIndex:uk_story_client"`
	ClientID  string    `gorm:"size:64;not null;uniqueIndex:uk_story_client"`
	CreatedAt time.Time
}

func (StoryLike) TableName() string {
	return "story_likes"
}

// LikeState 切换点赞后的结果
type LikeState struct {
	Likes   int64 `json:"likes"`
	IsLiked bool  `json:"isLiked"`
}
