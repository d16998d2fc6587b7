package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"Campus_QA/internal/model"
	"Campus_QA/internal/pkg"
	"Campus_QA/internal/repository/mysql"
)

type Sender func(ctx context.Context, ob *model.ModerationOutbox) error

// OutboxRelayer 从 outbox 表读取版主操作事件并投递
type OutboxRelayer struct {
	repo       OutboxStore
	batchSize  int
	interval   time.Duration
	maxRetries int
	sender     Sender
}

func NewOutboxRelayer(repo OutboxStore, sender Sender, batchSize int, interval time.Duration, maxRetries int) *OutboxRelayer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if interval <= 0 {
		interval = time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &OutboxRelayer{
		repo:       repo,
		batchSize:  batchSize,
		interval:   interval,
		maxRetries: maxRetries,
		sender:     sender,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("[OUTBOX] query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			log.Printf("[OUTBOX] send id=%d type=%s err: %v", ob.ID, ob.EventType, err)
			if err = r.repo.RetryUpdate(ctx, &ob, r.maxRetries); err != nil {
				log.Printf("[OUTBOX] retry update id=%d err: %v", ob.ID, err)
			}
			continue
		}
		if err = r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			log.Printf("[OUTBOX] success update id=%d err: %v", ob.ID, err)
		}
	}
}

// LogSender 没有配置 kafka 与邮件时只打印
func LogSender(ctx context.Context, ob *model.ModerationOutbox) error {
	log.Printf("[OUTBOX] SEND type=%s content=%s author=%s moderator=%s payload=%s",
		ob.EventType, ob.ContentID, ob.AuthorID, ob.ModeratorID, ob.Payload)
	return nil
}

type MessageProducer interface {
	Send(ctx context.Context, key string, value []byte) error
}

// KafkaSender 以内容 id 为 key 投递 payload
func KafkaSender(p MessageProducer) Sender {
	return func(ctx context.Context, ob *model.ModerationOutbox) error {
		return p.Send(ctx, ob.ContentID, []byte(ob.Payload))
	}
}

type Mailer func(cfg pkg.SMTPConfig, to, subject, htmlBody string) error

// EmailSender 通知内容作者其回答/帖子被版主处理；作者已不存在时跳过
func EmailSender(cfg pkg.SMTPConfig, users UserStore, mailer Mailer) Sender {
	if mailer == nil {
		mailer = pkg.SendEmail
	}
	return func(ctx context.Context, ob *model.ModerationOutbox) error {
		var ev model.ModerationEvent
		if err := json.Unmarshal([]byte(ob.Payload), &ev); err != nil {
			return err
		}
		author, err := users.FindByID(ctx, ob.AuthorID)
		if err != nil {
			if errors.Is(err, mysql.ErrNotFound) {
				return nil
			}
			return err
		}

		what := "answer"
		if ob.EventType == model.EventPostRemoved {
			what = "question"
		}
		return mailer(cfg, author.Email, "Your "+what+" was removed by a moderator",
			pkg.ModerationNoticeHTML(author.Username, what, ev.ModeratorUsername))
	}
}

// ChainSenders 依次投递，任意一个失败则整条事件重试
func ChainSenders(senders ...Sender) Sender {
	return func(ctx context.Context, ob *model.ModerationOutbox) error {
		for _, send := range senders {
			if err := send(ctx, ob); err != nil {
				return err
			}
		}
		return nil
	}
}
