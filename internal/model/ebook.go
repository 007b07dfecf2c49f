package model

import "time"

type Ebook struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Title          string    `gorm:"size:200;not null" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	Author         string    `gorm:"size:120;not null" json:"author"`
	Category       string    `gorm:"size:64;not null;index" json:"category"`
	CoverImagePath *string   `gorm:"size:255" json:"coverImagePath"`
	ExternalURL    string    `gorm:"column:external_url;size:500;not null" json:"externalUrl"`
	IsPublished    bool      `gorm:"not null;default:false;index" json:"isPublished"`
	IsFeatured     bool      `gorm:"not null;default:false" json:"isFeatured"`
	ViewCount      int64     `gorm:"not null;default:0" json:"viewCount"`
	DownloadCount  int64     `gorm:"not null;default:0" json:"downloadCount"`
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
