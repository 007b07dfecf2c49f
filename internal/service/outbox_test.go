package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"Thread_of_Hope/internal/logging"
	"Thread_of_Hope/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, html string
}

type recordingPublisher struct {
	keys    []string
	headers []map[string]string
	err     error
}

func (p *recordingPublisher) Send(ctx context.Context, key string, value []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.headers = append(p.headers, headers)
	return nil
}

func TestRelayerMarksSentAndRetriesFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submitStory(t, "a")
	f.submitStory(t, "b")

	calls := 0
	flaky := func(ctx context.Context, ob *model.ModerationOutbox) error {
		calls++
		if ob.Retry == 0 && calls == 1 {
			return errors.New("broker down")
		}
		return nil
	}
	relayer := NewOutboxRelayer(f.repos.Outbox, flaky, 10, time.Second, logging.Discard())

	assert.Equal(t, 1, relayer.DrainOnce(ctx))
	rows := f.store.Outbox().All()
	require.Len(t, rows, 2)
	assert.Equal(t, model.OutboxFailed, rows[0].Status)
	assert.Equal(t, 1, rows[0].Retry)
	assert.Equal(t, model.OutboxSent, rows[1].Status)

	assert.Equal(t, 1, relayer.DrainOnce(ctx))
	assert.Equal(t, model.OutboxSent, f.store.Outbox().All()[0].Status)
	assert.Equal(t, 0, relayer.DrainOnce(ctx))
}

func TestRelayerGivesUpAfterMaxRetries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submitStory(t, "a")

	failing := func(ctx context.Context, ob *model.ModerationOutbox) error { return errors.New("nope") }
	relayer := NewOutboxRelayer(f.repos.Outbox, failing, 0, 0, logging.Discard())
	for i := 0; i < 10; i++ {
		relayer.DrainOnce(ctx)
	}
	rows := f.store.Outbox().All()
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Retry)
}

func TestRelayerRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	f.submitStory(t, "a")
	relayer := NewOutboxRelayer(f.repos.Outbox, LogSender(logging.Discard()), 10, 10*time.Millisecond, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relayer.Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool {
		return f.store.Outbox().All()[0].Status == model.OutboxSent
	}, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relayer did not stop")
	}
}

func TestEmailSender(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var mails []sentMail
	mailer := func(to, subject, html string) error {
		mails = append(mails, sentMail{to, subject, html})
		return nil
	}

	f.submitStory(t, "Harapan <baru>")
	m, err := f.members.Join(ctx, memberApplication("dewi@example.com"))
	require.NoError(t, err)
	_, err = f.members.SetApproval(ctx, m.ID, approve())
	require.NoError(t, err)

	relayer := NewOutboxRelayer(f.repos.Outbox, EmailSender(mailer, "admin@thread.id"), 10, time.Second, logging.Discard())
	assert.Equal(t, 3, relayer.DrainOnce(ctx))

	require.Len(t, mails, 2)
	assert.Equal(t, "admin@thread.id", mails[0].to)
	assert.Contains(t, mails[0].html, "Harapan &lt;baru&gt;")
	assert.Equal(t, "dewi@example.com", mails[1].to)
	assert.Contains(t, mails[1].html, "Dewi Lestari")
}

func TestEmailSenderWithoutAdminInbox(t *testing.T) {
	called := false
	send := EmailSender(func(to, subject, html string) error { called = true; return nil }, "")
	ob, err := model.NewOutbox(model.EventStorySubmitted, model.ModerationEvent{Subject: model.SubjectStory, SubjectID: "s1"})
	require.NoError(t, err)
	require.NoError(t, send(context.Background(), ob))
	assert.False(t, called)
}

func TestKafkaAndMultiSender(t *testing.T) {
	pub := &recordingPublisher{}
	ob, err := model.NewOutbox(model.EventCommentApproved, model.ModerationEvent{Subject: model.SubjectComment, SubjectID: "c1"})
	require.NoError(t, err)

	require.NoError(t, KafkaSender(pub)(context.Background(), ob))
	assert.Equal(t, []string{"c1"}, pub.keys)
	assert.Equal(t, model.EventCommentApproved, pub.headers[0]["event-type"])

	broken := &recordingPublisher{err: errors.New("down")}
	multi := MultiSender(LogSender(logging.Discard()), KafkaSender(broken), KafkaSender(pub))
	err = multi(context.Background(), ob)
	assert.ErrorContains(t, err, "down")
	assert.Len(t, pub.keys, 2)
}

func TestMultiSenderRetryRedeliversWithSameOutboxID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submitStory(t, "a")

	pub := &recordingPublisher{}
	failOnce := true
	mail := func(ctx context.Context, ob *model.ModerationOutbox) error {
		if failOnce {
			failOnce = false
			return errors.New("smtp down")
		}
		return nil
	}
	relayer := NewOutboxRelayer(f.repos.Outbox, MultiSender(KafkaSender(pub), mail), 10, time.Second, logging.Discard())

	relayer.DrainOnce(ctx)
	relayer.DrainOnce(ctx)

	rows := f.store.Outbox().All()
	require.Len(t, rows, 1)
	assert.Equal(t, model.OutboxSent, rows[0].Status)
	require.Len(t, pub.headers, 2)
	id := strconv.FormatUint(rows[0].ID, 10)
	assert.Equal(t, id, pub.headers[0]["outbox-id"])
	assert.Equal(t, id, pub.headers[1]["outbox-id"])
}

func TestStatsDashboardAndHealth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.approvedStory(t, "a")
	f.submitStory(t, "b")
	_, err := f.members.Join(ctx, memberApplication("a@b.co"))
	require.NoError(t, err)

	stats := NewStatsService(f.repos)
	d, err := stats.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, QueueCounts{Pending: 1, Approved: 1, Total: 2}, d.Curhat)
	assert.Equal(t, int64(1), d.Members.Pending)
	assert.Equal(t, int64(0), d.Comments.Total)

	h := stats.Health(ctx)
	assert.True(t, h.Healthy())
	assert.Equal(t, "connected", h.Database.Connection)
	assert.Equal(t, int64(2), h.Database.CurhatCount)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	h = stats.Health(cancelled)
	assert.False(t, h.Healthy())
	assert.Equal(t, "failed", h.Database.Connection)
	assert.ErrorIs(t, h.Err(), context.Canceled)
}
