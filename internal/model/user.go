package model

import "time"

type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// Valid 是否是已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// CanModerate 版主与管理员可以处理他人内容
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

type User struct {
	ID        string    `gorm:"primaryKey;size:24" json:"_id"`
	Username  string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      Role      `gorm:"size:16;not null;default:'USER'" json:"role"`
	Email     string    `gorm:"uniqueIndex;size:64;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthorInfo 对外展示的作者信息
type AuthorInfo struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

func (u *User) Info() AuthorInfo {
	if u == nil {
		return AuthorInfo{}
	}
	return AuthorInfo{ID: u.ID, Username: u.Username}
}
