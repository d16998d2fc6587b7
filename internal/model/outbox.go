package model

import "time"

const (
	EventAnswerModerated = "answer.moderated"
	EventPostRemoved     = "post.removed"
)

const (
	OutboxPending int8 = iota
	OutboxSent
	OutboxFailed
)

// ModerationOutbox 版主操作事件表，与内容变更在同一事务中写入
type ModerationOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"`
	ContentID   string `gorm:"size:24;not null;index"`
	AuthorID    string `gorm:"size:24;not null"`
	ModeratorID string `gorm:"size:24;not null"`
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ModerationOutbox) TableName() string { return "moderation_outbox" }

// ModerationEvent outbox 中 payload 的结构
type ModerationEvent struct {
	EventType         string    `json:"event_type"`
	ContentID         string    `json:"content_id"`
	PostID            string    `json:"post_id"`
	AuthorID          string    `json:"author_id"`
	ModeratorID       string    `json:"moderator_id"`
	ModeratorUsername string    `json:"moderator_username"`
	EventTime         time.Time `json:"event_time"`
}
