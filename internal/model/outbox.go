package model

import (
	"encoding/json"
	"time"
)

// 审核事件类型
const (
	EventStorySubmitted   = "story.submitted"
	EventStoryApproved    = "story.approved"
	EventStoryRejected    = "story.rejected"
	EventCommentSubmitted = "comment.submitted"
	EventCommentApproved  = "comment.approved"
	EventCommentRejected  = "comment.rejected"
	EventMemberJoined     = "member.joined"
	EventMemberApproved   = "member.approved"
	EventMemberRejected   = "member.rejected"
)

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// ModerationOutbox 审核事件表，和状态变更写在同一个事务里，由 relayer 异步投递
type ModerationOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"`
	Subject   string `gorm:"size:16;not null"` // story / comment / member
	SubjectID string `gorm:"size:36;not null;index"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ModerationOutbox) TableName() string { return "moderation_outbox" }

// StatusEvent 根据实体和新状态得到事件类型
func StatusEvent(subject string, s ModerationStatus) string {
	switch s {
	case StatusApproved:
		return subject + ".approved"
	case StatusRejected:
		return subject + ".rejected"
	}
	return ""
}

const (
	SubjectStory   = "story"
	SubjectComment = "comment"
	SubjectMember  = "member"
)

// ModerationEvent outbox payload，投递方只依赖这里的字段
type ModerationEvent struct {
	Subject   string           `json:"subject"`
	SubjectID string           `json:"subjectId"`
	Status    ModerationStatus `json:"status"`
	Title     string           `json:"title,omitempty"`
	Name      string           `json:"name,omitempty"`
	Email     string           `json:"email,omitempty"`
	StoryID   string           `json:"curhatId,omitempty"`
	EventTime time.Time        `json:"eventTime"`
}

func StoryEvent(s *Story, at time.Time) ModerationEvent {
	return ModerationEvent{
		Subject: SubjectStory, SubjectID: s.ID, Status: s.Status,
		Title: s.Title, Name: s.AuthorName, EventTime: at.UTC(),
	}
}

func CommentEvent(c *Comment, at time.Time) ModerationEvent {
	ev := ModerationEvent{
		Subject: SubjectComment, SubjectID: c.ID, Status: c.Status,
		StoryID: c.StoryID, EventTime: at.UTC(),
	}
	if c.AuthorName != nil {
		ev.Name = *c.AuthorName
	}
	return ev
}

func MemberEvent(m *CommunityMember, at time.Time) ModerationEvent {
	return ModerationEvent{
		Subject: SubjectMember, SubjectID: m.ID, Status: m.Status,
		Name: m.FullName, Email: m.Email, EventTime: at.UTC(),
	}
}

func NewOutbox(eventType string, ev ModerationEvent) (*ModerationOutbox, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &ModerationOutbox{
		EventType: eventType,
		Subject:   ev.Subject,
		SubjectID: ev.SubjectID,
		Payload:   string(payload),
		Status:    OutboxPending,
	}, nil
}

func (o *ModerationOutbox) Event() (ModerationEvent, error) {
	var ev ModerationEvent
	err := json.Unmarshal([]byte(o.Payload), &ev)
	return ev, err
}
