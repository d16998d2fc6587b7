package mysql

import (
	"context"

	"Campus_QA/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) Create(ctx context.Context, answer *model.Answer) error {
	if err := r.DB.WithContext(ctx).Create(answer).Error; err != nil {
		return errors.Wrap(err, "create answer")
	}
	return nil
}

func (r *AnswerRepository) FindByID(ctx context.Context, id string) (*model.Answer, error) {
	var answer model.Answer
	if err := r.DB.WithContext(ctx).First(&answer, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(notFound(err), "find answer %s", id)
	}
	return &answer, nil
}

// Delete 物理删除
func (r *AnswerRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Answer{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete answer %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "delete answer %s", id)
	}
	return nil
}

// Moderate 版主软删除：替换内容并记录操作人，同一事务写入 outbox。
// 只处理尚未被软删除的回答，已处理过的返回 affected=false
func (r *AnswerRepository) Moderate(ctx context.Context, answer *model.Answer, event *model.ModerationOutbox) (bool, error) {
	var affected bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Answer{}).
			Where("id = ? AND is_deleted = ?", answer.ID, false).
			Updates(map[string]any{
				"content":    answer.Content,
				"is_deleted": true,
				"deleted_by": answer.DeletedBy,
				"updated_at": answer.UpdatedAt,
			})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "moderate answer %s", answer.ID)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		affected = true
		if event != nil {
			if err := tx.Create(event).Error; err != nil {
				return errors.Wrap(err, "insert outbox")
			}
		}
		return nil
	})
	return affected, err
}
