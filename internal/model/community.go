package model

import "time"

// CommunityMember 社区加入申请，email 唯一
type CommunityMember struct {
	ID            string  `gorm:"primaryKey;size:36" json:"id"`
	FullName      string  `gorm:"size:120;not null" json:"fullName"`
	Email         string  `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Phone         *string `gorm:"size:32" json:"phone"`
	Age           int     `gorm:"not null" json:"age"`
	City          string  `gorm:"size:100;not null" json:"city"`
	Occupation    *string `gorm:"size:100" json:"occupation"`
	Motivation    string  `gorm:"type:text;not null" json:"motivation"`
	HowDidYouHear string  `gorm:"size:200;not null" json:"howDidYouHear"`
	Moderation
	JoinedAt  time.Time `gorm:"autoCreateTime;index" json:"joinedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
