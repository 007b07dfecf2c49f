package service

import (
	"context"
	"runtime"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"
)

type StatsService struct {
	repos   Repositories
	started time.Time
	now     func() time.Time
}

func NewStatsService(repos Repositories) *StatsService {
	return &StatsService{repos: repos, started: time.Now(), now: time.Now}
}

type DatabaseHealth struct {
	Connection  string `json:"connection"`
	UserCount   int64  `json:"userCount"`
	CurhatCount int64  `json:"curhatCount"`
	EbookCount  int64  `json:"ebookCount"`
}

type SystemHealth struct {
	GoVersion  string `json:"goVersion"`
	Platform   string `json:"platform"`
	Arch       string `json:"arch"`
	Goroutines int    `json:"goroutines"`
	HeapMB     uint64 `json:"heapMb"`
}

type Health struct {
	Status       string         `json:"status"`
	Timestamp    time.Time      `json:"timestamp"`
	Uptime       float64        `json:"uptime"`
	ResponseTime int64          `json:"responseTime"`
	Database     DatabaseHealth `json:"database"`
	System       SystemHealth   `json:"system"`
	err          error
}

func (h *Health) Healthy() bool { return h.Status == "healthy" }

// Err 失败原因只用于日志，不进响应
func (h *Health) Err() error { return h.err }

// Health 失败时仍返回快照，由 handler 决定 500
func (s *StatsService) Health(ctx context.Context) *Health {
	start := s.now()
	h := &Health{
		Status:    "healthy",
		Timestamp: start.UTC(),
		Uptime:    start.Sub(s.started).Seconds(),
		System:    systemHealth(),
	}
	if err := s.fillDatabase(ctx, &h.Database); err != nil {
		h.Status = "unhealthy"
		h.Database = DatabaseHealth{Connection: "failed"}
		h.err = err
	}
	h.ResponseTime = s.now().Sub(start).Milliseconds()
	return h
}

func (s *StatsService) fillDatabase(ctx context.Context, db *DatabaseHealth) error {
	if s.repos.DB != nil {
		if err := s.repos.DB.Ping(ctx); err != nil {
			return err
		}
	}
	var err error
	if db.UserCount, err = s.repos.Users.Count(ctx); err != nil {
		return err
	}
	if db.CurhatCount, err = s.repos.Stories.Count(ctx, ""); err != nil {
		return err
	}
	if db.EbookCount, err = s.repos.Ebooks.Count(ctx); err != nil {
		return err
	}
	db.Connection = "connected"
	return nil
}

func systemHealth() SystemHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return SystemHealth{
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS,
		Arch:       runtime.GOARCH,
		Goroutines: runtime.NumGoroutine(),
		HeapMB:     m.HeapAlloc >> 20,
	}
}

type QueueCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

// Dashboard 管理后台首页的各审核队列计数
type Dashboard struct {
	Curhat    QueueCounts `json:"curhat"`
	Comments  QueueCounts `json:"comments"`
	Members   QueueCounts `json:"members"`
	Ebooks    int64       `json:"ebooks"`
	Users     int64       `json:"users"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type statusCounter func(ctx context.Context, status model.ModerationStatus) (int64, error)

func (s *StatsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{UpdatedAt: s.now().UTC()}
	var err error
	if d.Curhat, err = queueCounts(ctx, s.repos.Stories.Count); err != nil {
		return nil, pkg.Internal("Failed to fetch stats", err)
	}
	if d.Comments, err = queueCounts(ctx, s.repos.Comments.Count); err != nil {
		return nil, pkg.Internal("Failed to fetch stats", err)
	}
	if d.Members, err = queueCounts(ctx, s.repos.Members.Count); err != nil {
		return nil, pkg.Internal("Failed to fetch stats", err)
	}
	if d.Ebooks, err = s.repos.Ebooks.Count(ctx); err != nil {
		return nil, pkg.Internal("Failed to fetch stats", err)
	}
	if d.Users, err = s.repos.Users.Count(ctx); err != nil {
		return nil, pkg.Internal("Failed to fetch stats", err)
	}
	return d, nil
}

func queueCounts(ctx context.Context, count statusCounter) (QueueCounts, error) {
	var q QueueCounts
	var err error
	if q.Pending, err = count(ctx, model.StatusPending); err != nil {
		return q, err
	}
	if q.Approved, err = count(ctx, model.StatusApproved); err != nil {
		return q, err
	}
	if q.Rejected, err = count(ctx, model.StatusRejected); err != nil {
		return q, err
	}
	q.Total = q.Pending + q.Approved + q.Rejected
	return q, nil
}
