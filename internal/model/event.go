package model

import "time"

type Event struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	EventDate   time.Time `gorm:"not null;index" json:"eventDate"`
	Location    *string   `gorm:"size:200" json:"location"`
	ImagePath   *string   `gorm:"size:255" json:"imagePath"`
	IsFeatured  bool      `gorm:"not null;default:false" json:"isFeatured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
