package mysql

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// 需要 docker，THREAD_MYSQL_IT=1 时才跑
func startMySQL(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("THREAD_MYSQL_IT") != "1" {
		t.Skip("set THREAD_MYSQL_IT=1 to run MySQL integration tests")
	}
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret",
			"MYSQL_DATABASE":      "thread_of_hope",
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(2 * time.Minute),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "3306")
	require.NoError(t, err)
	dsn := fmt.Sprintf("root:secret@tcp(%s:%s)/thread_of_hope?charset=utf8mb4&parseTime=True&loc=UTC", host, port.Port())

	var db *gorm.DB
	require.Eventually(t, func() bool {
		db, err = InitDB(dsn)
		return err == nil && (&Pinger{DB: db}).Ping(ctx) == nil
	}, time.Minute, time.Second)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestMySQLModerationFlow(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()
	stories := &StoryRepository{DB: db}
	likes := &LikeRepository{DB: db}
	members := &MemberRepository{DB: db}
	outbox := &OutboxRepository{DB: db}

	s := &model.Story{ID: "11111111-1111-1111-1111-111111111111", Title: "Harapan", Content: "Cerita", AuthorName: "Ana"}
	s.SetStatus(model.StatusPending)
	require.NoError(t, stories.Create(ctx, s))

	list, total, err := stories.List(ctx, model.StatusApproved, pkg.NewPage(1, 10, 10))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	approved := model.StatusApproved
	got, err := stories.Update(ctx, s.ID, model.StoryPatch{Status: &approved})
	require.NoError(t, err)
	assert.True(t, got.IsApproved)

	state, err := likes.Toggle(ctx, s.ID, "client-a")
	require.NoError(t, err)
	assert.Equal(t, model.LikeState{Likes: 1, IsLiked: true}, state)
	state, err = likes.Toggle(ctx, s.ID, "client-a")
	require.NoError(t, err)
	assert.Equal(t, model.LikeState{Likes: 0, IsLiked: false}, state)

	m := &model.CommunityMember{ID: "22222222-2222-2222-2222-222222222222", FullName: "Budi", Email: "budi@example.com", Age: 30, City: "Bandung", Motivation: "m", HowDidYouHear: "teman"}
	m.SetStatus(model.StatusPending)
	require.NoError(t, members.Create(ctx, m))
	dup := *m
	dup.ID = "33333333-3333-3333-3333-333333333333"
	assert.ErrorIs(t, members.Create(ctx, &dup), pkg.ErrDuplicate)

	events, err := outbox.ListPending(ctx, 10)
	require.NoError(t, err)
	var types []string
	for _, e := range events {
		types = append(types, e.EventType)
	}
	assert.Equal(t, []string{model.EventStorySubmitted, model.EventStoryApproved, model.EventMemberJoined}, types)
}
