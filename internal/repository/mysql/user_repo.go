package mysql

import (
	"context"

	"Campus_QA/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		return errors.Wrap(err, "create user")
	}
	return nil
}

// FindByUsername 用户名或邮箱均可登录
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("username = ? OR email = ?", username, username).First(&user).Error
	if err != nil {
		return nil, errors.Wrapf(notFound(err), "find user %q", username)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrapf(notFound(err), "find user %s", id)
	}
	return &user, nil
}

// Exists 用户名或邮箱是否已被占用
func (r *UserRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n).Error
	if err != nil {
		return false, errors.Wrap(err, "count users")
	}
	return n > 0, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role model.Role) error {
	tx := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("role", role)
	if tx.Error != nil {
		return errors.Wrapf(tx.Error, "update role of %s", id)
	}
	if tx.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "update role of %s", id)
	}
	return nil
}
