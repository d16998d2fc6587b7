package model

import (
	"fmt"
	"time"
)

type Answer struct {
	ID        string    `gorm:"primaryKey;size:24" json:"_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  string    `gorm:"size:24;not null;index" json:"authorId"`
	PostID    string    `gorm:"size:24;not null;index:idx_post_time" json:"postId"`
	IsDeleted bool      `gorm:"not null;default:false" json:"isDeleted"`
	DeletedBy *string   `gorm:"size:24" json:"deletedBy,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_post_time" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}

// AnswerDetail 帖子详情中的回答
type AnswerDetail struct {
	Answer
	AuthorInfo AuthorInfo `json:"authorInfo"`
	CanDelete  bool       `json:"canDelete"`
}

// ModerationNotice 版主删除后替换的回答内容
func ModerationNotice(moderator string) string {
	return fmt.Sprintf("[This answer was deleted by moderator: %s]", moderator)
}
