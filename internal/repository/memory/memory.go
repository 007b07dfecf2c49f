package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/google/uuid"
)

// Store 进程内存储，database.driver=memory 时使用，也是测试替身。
// 所有仓储共用一把锁，跨实体的操作（删故事连带评论、点赞计数）在同一临界区内完成
type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	users    map[string]*model.User
	stories  map[string]*model.Story
	comments map[string]*model.Comment
	likes    map[likeKey]*model.StoryLike
	members  map[string]*model.CommunityMember
	ebooks   map[string]*model.Ebook
	events   map[string]*model.Event
	gallery  map[string]*model.GalleryItem
	outbox   []*model.ModerationOutbox
	outboxID uint64
	sessions *SessionRepository
}

type likeKey struct {
	storyID  string
	clientID string
}

func New() *Store {
	s := &Store{
		now:      time.Now,
		users:    make(map[string]*model.User),
		stories:  make(map[string]*model.Story),
		comments: make(map[string]*model.Comment),
		likes:    make(map[likeKey]*model.StoryLike),
		members:  make(map[string]*model.CommunityMember),
		ebooks:   make(map[string]*model.Ebook),
		events:   make(map[string]*model.Event),
		gallery:  make(map[string]*model.GalleryItem),
	}
	s.sessions = NewSessionRepository(func() time.Time { return s.clock() })
	return s
}

func (s *Store) clock() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

// SetClock 测试里固定时间
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Stories() *StoryRepository { return &StoryRepository{s: s} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s: s} }
func (s *Store) Likes() *LikeRepository { return &LikeRepository{s: s} }
func (s *Store) Members() *MemberRepository { return &MemberRepository{s: s} }
func (s *Store) Ebooks() *EbookRepository { return &EbookRepository{s: s} }
func (s *Store) Events() *EventRepository { return &EventRepository{s: s} }
func (s *Store) Gallery() *GalleryRepository { return &GalleryRepository{s: s} }
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{s: s} }
func (s *Store) Sessions() *SessionRepository { return s.sessions }

// appendOutbox 调用方必须持有写锁
func (s *Store) appendOutbox(eventType string, ev model.ModerationEvent) error {
	ob, err := model.NewOutbox(eventType, ev)
	if err != nil {
		return err
	}
	s.outboxID++
	ob.ID = s.outboxID
	ob.CreatedAt = s.now()
	ob.UpdatedAt = ob.CreatedAt
	s.outbox = append(s.outbox, ob)
	return nil
}

// stamp 补齐 id 和时间戳
func (s *Store) stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := s.now()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

func matchStatus(filter, status model.ModerationStatus) bool {
	return filter == "" || filter == status
}

// window 排序后的切片按页截取
func window[T any](items []T, page pkg.Page) []T {
	start, end := page.Window(len(items))
	return items[start:end]
}

// newestFirst 按时间倒序，时间相同再按 id 倒序，保证翻页稳定
func newestFirst[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}
