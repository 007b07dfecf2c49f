package model

import "time"

const DefaultGalleryCategory = "general"

type GalleryItem struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	ImagePath   string    `gorm:"size:255;not null" json:"imagePath"`
	Category    string    `gorm:"size:64;not null;default:general;index" json:"category"`
	IsFeatured  bool      `gorm:"not null;default:false" json:"isFeatured"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (GalleryItem) TableName() string {
	return "gallery_items"
}
