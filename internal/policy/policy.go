// Package policy 决定请求者能否删除某条内容。
//
// 判断只依赖请求者身份与内容作者，不读取请求上下文，便于脱离 HTTP 单独测试。
package policy

import "Campus_QA/internal/model"

// Identity 当前请求者，ID 为空表示未登录
type Identity struct {
	ID       string
	Username string
	Role     model.Role
}

func (i Identity) Anonymous() bool {
	return i.ID == ""
}

type ContentKind int

const (
	ContentPost ContentKind = iota + 1
	ContentAnswer
)

func (k ContentKind) String() string {
	switch k {
	case ContentPost:
		return "post"
	case ContentAnswer:
		return "answer"
	}
	return "unknown"
}

type Mode int

const (
	HardDelete Mode = iota + 1
	SoftDelete
)

func (m Mode) String() string {
	switch m {
	case HardDelete:
		return "hard_delete"
	case SoftDelete:
		return "soft_delete"
	}
	return "none"
}

type Reason int

const (
	Unauthenticated Reason = iota + 1
	Forbidden
)

func (r Reason) String() string {
	switch r {
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	}
	return "none"
}

// Decision 要么 Allowed 并带 Mode，要么拒绝并带 Reason
type Decision struct {
	Allowed bool
	Mode    Mode
	Reason  Reason
}

func Allow(mode Mode) Decision { return Decision{Allowed: true, Mode: mode} }
func Deny(reason Reason) Decision { return Decision{Reason: reason} }

// Decide 作者优先：版主删除自己的内容也走硬删除。
// 版主处理他人的回答是软删除，处理他人的帖子是硬删除。
func Decide(requester Identity, kind ContentKind, authorID string) Decision {
	if requester.Anonymous() {
		return Deny(Unauthenticated)
	}
	if requester.ID == authorID {
		return Allow(HardDelete)
	}
	if requester.Role.CanModerate() {
		if kind == ContentAnswer {
			return Allow(SoftDelete)
		}
		return Allow(HardDelete)
	}
	return Deny(Forbidden)
}

// CanDelete 供展示层判断是否显示删除入口
func CanDelete(requester Identity, kind ContentKind, authorID string) bool {
	return Decide(requester, kind, authorID).Allowed
}
