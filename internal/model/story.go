package model

import "time"

// Story 用户提交的"curhat"故事
type Story struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	Title      string `gorm:"size:200;not null" json:"title"`
	Content    string `gorm:"type:text;not null" json:"content"`
	AuthorName string `gorm:"size:100;not null" json:"authorName"`
	AuthorAge  int    `gorm:"not null;default:0" json:"authorAge,omitempty"`
	Moderation
	Likes     int64     `gorm:"-" json:"likes"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Story) TableName() string {
	return "stories"
}

// StorySummary 评论列表里附带的故事摘要
type StorySummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	AuthorName string `json:"authorName"`
}
