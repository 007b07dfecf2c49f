package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"Thread_of_Hope/internal/metrics"
	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/sirupsen/logrus"
)

const (
	defaultOutboxBatch    = 100
	defaultOutboxInterval = 2 * time.Second
)

type Sender func(ctx context.Context, ob *model.ModerationOutbox) error

// OutboxRelayer 从 outbox 表取出待投递的审核事件，投递成功标记 sent，失败计一次重试
type OutboxRelayer struct {
	repo      OutboxRepository
	sender    Sender
	batchSize int
	interval  time.Duration
	log       logrus.FieldLogger
}

func NewOutboxRelayer(repo OutboxRepository, sender Sender, batchSize int, interval time.Duration, log logrus.FieldLogger) *OutboxRelayer {
	if batchSize <= 0 {
		batchSize = defaultOutboxBatch
	}
	if interval <= 0 {
		interval = defaultOutboxInterval
	}
	return &OutboxRelayer{repo: repo, sender: sender, batchSize: batchSize, interval: interval, log: log}
}

// Run 阻塞直到 ctx 取消
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 处理一批，返回成功投递的条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		r.log.WithError(err).Warn("outbox query failed")
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{
				"outbox_id": ob.ID,
				"event":     ob.EventType,
				"retry":     ob.Retry + 1,
			}).Warn("outbox delivery failed")
			metrics.RecordOutbox(false)
			if err := r.repo.MarkFailed(ctx, ob.ID); err != nil {
				r.log.WithError(err).WithField("outbox_id", ob.ID).Error("outbox mark failed")
			}
			continue
		}
		metrics.RecordOutbox(true)
		if err := r.repo.MarkSent(ctx, ob.ID); err != nil {
			r.log.WithError(err).WithField("outbox_id", ob.ID).Error("outbox mark sent")
			continue
		}
		sent++
	}
	return sent
}

// LogSender 没有配置 kafka 和 smtp 时使用，只打日志
func LogSender(log logrus.FieldLogger) Sender {
	return func(ctx context.Context, ob *model.ModerationOutbox) error {
		log.WithFields(logrus.Fields{
			"event":      ob.EventType,
			"subject":    ob.Subject,
			"subject_id": ob.SubjectID,
		}).Info(ob.Payload)
		return nil
	}
}

// EventPublisher pkg.KafkaProducer 满足此接口
type EventPublisher interface {
	Send(ctx context.Context, key string, value []byte, headers map[string]string) error
}

// KafkaSender 以 subject id 为 key，同一实体的事件落在同一分区。
// outbox-id 头用于消费端去重
func KafkaSender(p EventPublisher) Sender {
	return func(ctx context.Context, ob *model.ModerationOutbox) error {
		return p.Send(ctx, ob.SubjectID, []byte(ob.Payload), map[string]string{
			"event-type": ob.EventType,
			"subject":    ob.Subject,
			"outbox-id":  strconv.FormatUint(ob.ID, 10),
		})
	}
}

type Mailer func(to, subject, html string) error

// SMTPMailer 把 pkg.SendEmail 包装成 Mailer
func SMTPMailer(cfg pkg.SMTPConfig) Mailer {
	return func(to, subject, html string) error {
		return pkg.SendEmail(cfg, to, subject, html)
	}
}

// EmailSender 成员审核通过时通知本人，新故事提交时通知管理员邮箱；其余事件忽略
func EmailSender(mail Mailer, adminEmail string) Sender {
	return func(ctx context.Context, ob *model.ModerationOutbox) error {
		switch ob.EventType {
		case model.EventMemberApproved, model.EventStorySubmitted:
		default:
			return nil
		}
		ev, err := ob.Event()
		if err != nil {
			return fmt.Errorf("decode outbox %d: %w", ob.ID, err)
		}
		if ob.EventType == model.EventMemberApproved {
			if ev.Email == "" {
				return nil
			}
			return mail(ev.Email, "Selamat bergabung di Thread of Hope", pkg.MemberApprovedHTML(ev.Name))
		}
		if adminEmail == "" {
			return nil
		}
		return mail(adminEmail, "Cerita baru menunggu persetujuan", pkg.StorySubmittedHTML(ev.Title, ev.Name))
	}
}

// MultiSender 依次调用所有 sender，任一失败整行按失败重试。
// 重试时已成功的 sender 会再收到同一事件，投递语义是至少一次，
// 下游按 outbox-id 去重（邮件除外，重试可能重复发信）。
func MultiSender(senders ...Sender) Sender {
	return func(ctx context.Context, ob *model.ModerationOutbox) error {
		var errs []error
		for _, s := range senders {
			if err := s(ctx, ob); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
