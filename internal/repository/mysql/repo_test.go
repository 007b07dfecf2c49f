package mysql

import (
	"context"
	"testing"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestLikeToggleInsertsWhenAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &LikeRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `stories`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s1"))
	mock.ExpectQuery("SELECT \\* FROM `story_likes` .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "story_id", "client_id", "created_at"}))
	mock.ExpectExec("INSERT INTO `story_likes`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `story_likes`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))
	mock.ExpectCommit()

	state, err := repo.Toggle(context.Background(), "s1", model.ClientToken("c1"))
	require.NoError(t, err)
	assert.True(t, state.IsLiked)
	assert.Equal(t, int64(3), state.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeToggleDeletesWhenPresent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &LikeRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `stories`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s1"))
	mock.ExpectQuery("SELECT \\* FROM `story_likes` .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "story_id", "client_id", "created_at"}).
			AddRow("l1", "s1", "c1", time.Now()))
	mock.ExpectExec("DELETE FROM `story_likes`").
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `story_likes`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))
	mock.ExpectCommit()

	state, err := repo.Toggle(context.Background(), "s1", model.ClientToken("c1"))
	require.NoError(t, err)
	assert.False(t, state.IsLiked)
	assert.Equal(t, int64(2), state.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeToggleUnknownStory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &LikeRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `stories`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.Toggle(context.Background(), "missing", model.ClientToken("c1"))
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryListFiltersAndPaginates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &StoryRepository{DB: db}
	now := time.Now()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `stories` WHERE status = \\?").
		WithArgs(model.StatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(15))
	rows := sqlmock.NewRows([]string{"id", "title", "content", "author_name", "author_age", "status", "created_at", "updated_at"})
	for i := 0; i < 5; i++ {
		rows.AddRow("s", "t", "c", "a", 20, "approved", now, now)
	}
	mock.ExpectQuery("SELECT \\* FROM `stories` WHERE status = \\? ORDER BY created_at DESC, id DESC LIMIT").
		WillReturnRows(rows)

	list, total, err := repo.List(context.Background(), model.StatusApproved, pkg.NewPage(2, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	require.Len(t, list, 5)
	assert.True(t, list[0].IsApproved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberCreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &MemberRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `community_members`").
		WillReturnError(&mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.CommunityMember{ID: "m1", Email: "a@b.c"})
	assert.ErrorIs(t, err, pkg.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryCreateWritesOutbox(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &StoryRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `stories`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `moderation_outbox`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	s := &model.Story{ID: "s1", Title: "t", Content: "c", AuthorName: "a"}
	s.SetStatus(model.StatusPending)
	require.NoError(t, repo.Create(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEbookIncrementMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &EbookRepository{DB: db}

	mock.ExpectExec("UPDATE `ebooks` SET `view_count`=view_count \\+ \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Increment(context.Background(), "nope", model.EbookViewCounter)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), pkg.ErrNotFound)
	assert.ErrorIs(t, translate(&mysqldrv.MySQLError{Number: errDupEntry}), pkg.ErrDuplicate)
	assert.Nil(t, translate(nil))
}
