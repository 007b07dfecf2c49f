package model

import (
	"regexp"

	"gorm.io/gorm"
)

// ModerationStatus 审核状态：待审核 / 已通过 / 已拒绝
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// StatusFromApproval 兼容旧接口的布尔审核字段：true=通过，false=拒绝（而不是回到待审核）
func StatusFromApproval(approved bool) ModerationStatus {
	if approved {
		return StatusApproved
	}
	return StatusRejected
}

// Moderation 需要审核的实体共用的状态字段，IsApproved 只用于输出，不落库
type Moderation struct {
	Status     ModerationStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	IsApproved bool             `gorm:"-" json:"isApproved"`
}

func (m *Moderation) SetStatus(s ModerationStatus) {
	m.Status = s
	m.IsApproved = s == StatusApproved
}

// AfterFind 从库中读出后补齐 IsApproved
func (m *Moderation) AfterFind(tx *gorm.DB) error {
	m.IsApproved = m.Status == StatusApproved
	return nil
}

var clientTokenRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ClientToken 浏览器本地生成的匿名标识，只用来限定一次点赞的归属，不代表任何身份。
// 清空本地存储即可换一个新标识重新点赞，这是匿名点赞本身的局限。
type ClientToken string

func ParseClientToken(raw string) (ClientToken, bool) {
	if !clientTokenRe.MatchString(raw) {
		return "", false
	}
	return ClientToken(raw), true
}
