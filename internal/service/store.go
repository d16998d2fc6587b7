package service

import (
	"context"

	"Campus_QA/internal/model"
)

// 仓储接口，由 repository/mysql 与 repository/redis 实现

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
	UpdateRole(ctx context.Context, id string, role model.Role) error
}

type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	FindDetail(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, offset, limit int) ([]model.PostSummary, error)
	Delete(ctx context.Context, id string, event *model.ModerationOutbox) error
}

type AnswerStore interface {
	Create(ctx context.Context, answer *model.Answer) error
	FindByID(ctx context.Context, id string) (*model.Answer, error)
	Delete(ctx context.Context, id string) error
	Moderate(ctx context.Context, answer *model.Answer, event *model.ModerationOutbox) (bool, error)
}

type OutboxStore interface {
	List(ctx context.Context, batchSize int) ([]model.ModerationOutbox, error)
	RetryUpdate(ctx context.Context, ob *model.ModerationOutbox, maxRetries int) error
	SuccessUpdate(ctx context.Context, id uint64) error
}

type TokenStore interface {
	AddUserToken(ctx context.Context, userID, token string) error
	GetUserToken(ctx context.Context, userID string) (string, error)
	ExtendUserToken(ctx context.Context, userID string) error
	DeleteUserToken(ctx context.Context, userID string) error
}
