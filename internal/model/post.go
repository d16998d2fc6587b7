package model

import "time"

type Post struct {
	ID        string    `gorm:"primaryKey;size:24" json:"_id"`
	AuthorID  string    `gorm:"size:24;not null;index:idx_author_time" json:"authorId"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"index:idx_created_at;index:idx_author_time" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author  *User    `gorm:"foreignKey:AuthorID" json:"-"`
	Answers []Answer `gorm:"foreignKey:PostID" json:"-"`
}

// PostSummary 列表页使用，带作者与回答数
type PostSummary struct {
	ID          string     `json:"_id"`
	Body        string     `json:"body"`
	AuthorInfo  AuthorInfo `json:"authorInfo"`
	TotalAnswer int64      `json:"totalAnswer"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// PostDetail 帖子详情：嵌套回答与作者信息，CanDelete 仅供前端展示参考
type PostDetail struct {
	ID          string         `json:"_id"`
	Body        string         `json:"body"`
	AuthorInfo  AuthorInfo     `json:"authorInfo"`
	Answers     []AnswerDetail `json:"answers"`
	TotalAnswer int            `json:"totalAnswer"`
	CanDelete   bool           `json:"canDelete"`
	CreatedAt   time.Time      `json:"createdAt"`
}
