package model

import "time"

type Comment struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	Content    string  `gorm:"type:text;not null" json:"content"`
	AuthorName *string `gorm:"size:100" json:"authorName"` // nil=匿名
	StoryID    string  `gorm:"size:36;not null;index" json:"curhatId"`
	Moderation
	Story     *StorySummary `gorm:"-" json:"curhat,omitempty"`
	CreatedAt time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
