package service

import (
	"context"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"
)

// 仓储接口，mysql 和 memory 两套实现

type StoryRepository interface {
	Create(ctx context.Context, s *model.Story) error
	FindByID(ctx context.Context, id string) (*model.Story, error)
	List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.Story, int64, error)
	Update(ctx context.Context, id string, patch model.StoryPatch) (*model.Story, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, status model.ModerationStatus) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	ListByStory(ctx context.Context, storyID string, status model.ModerationStatus) ([]model.Comment, error)
	List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.Comment, int64, error)
	SetStatus(ctx context.Context, id string, status model.ModerationStatus) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, status model.ModerationStatus) (int64, error)
}

type LikeRepository interface {
	Toggle(ctx context.Context, storyID string, client model.ClientToken) (model.LikeState, error)
	State(ctx context.Context, storyID string, client model.ClientToken) (model.LikeState, error)
	CountByStories(ctx context.Context, ids []string) (map[string]int64, error)
}

type MemberRepository interface {
	Create(ctx context.Context, m *model.CommunityMember) error
	FindByID(ctx context.Context, id string) (*model.CommunityMember, error)
	FindByEmail(ctx context.Context, email string) (*model.CommunityMember, error)
	List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.CommunityMember, int64, error)
	SetStatus(ctx context.Context, id string, status model.ModerationStatus) (*model.CommunityMember, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, status model.ModerationStatus) (int64, error)
}

type EbookRepository interface {
	Create(ctx context.Context, e *model.Ebook) error
	FindByID(ctx context.Context, id string) (*model.Ebook, error)
	List(ctx context.Context, f model.EbookFilter, page pkg.Page) ([]model.Ebook, int64, error)
	Update(ctx context.Context, id string, patch model.EbookPatch) (*model.Ebook, error)
	Delete(ctx context.Context, id string) error
	Increment(ctx context.Context, id, counter string) error
	Count(ctx context.Context) (int64, error)
}

type EventRepository interface {
	Create(ctx context.Context, e *model.Event) error
	FindByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, f model.EventFilter, page pkg.Page) ([]model.Event, int64, error)
	Update(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error)
	Delete(ctx context.Context, id string) error
}

type GalleryRepository interface {
	Create(ctx context.Context, g *model.GalleryItem) error
	FindByID(ctx context.Context, id string) (*model.GalleryItem, error)
	List(ctx context.Context, f model.GalleryFilter, page pkg.Page) ([]model.GalleryItem, int64, error)
	Update(ctx context.Context, id string, patch model.GalleryPatch) (*model.GalleryItem, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	Count(ctx context.Context) (int64, error)
}

type OutboxRepository interface {
	ListPending(ctx context.Context, batchSize int) ([]model.ModerationOutbox, error)
	MarkSent(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64) error
}

// SessionRepository redis 或内存实现
type SessionRepository interface {
	CreateSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	SetUserToken(ctx context.Context, userID, token string, ttl time.Duration) error
	GetUserToken(ctx context.Context, userID string) (string, error)
	DeleteUserToken(ctx context.Context, userID string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Repositories 一次性注入所有仓储，cmd 根据 driver 组装
type Repositories struct {
	Stories  StoryRepository
	Comments CommentRepository
	Likes    LikeRepository
	Members  MemberRepository
	Ebooks   EbookRepository
	Events   EventRepository
	Gallery  GalleryRepository
	Users    UserRepository
	Outbox   OutboxRepository
	Sessions SessionRepository
	DB       Pinger
}
