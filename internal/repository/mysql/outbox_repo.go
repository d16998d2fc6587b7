package mysql

import (
	"context"

	"Campus_QA/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{DB: db}
}

// List 按 id 顺序取待投递事件
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.ModerationOutbox, error) {
	var list []model.ModerationOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败：重试次数 +1，达到 maxRetries 后标记为失败不再投递
func (r *OutboxRepository) RetryUpdate(ctx context.Context, ob *model.ModerationOutbox, maxRetries int) error {
	status := model.OutboxPending
	if ob.Retry+1 >= maxRetries {
		status = model.OutboxFailed
	}
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).Where("id = ?", ob.ID).
		Updates(map[string]any{
			"retry":  gorm.Expr("retry + 1"),
			"status": status,
		}).Error
}

// SuccessUpdate 投递成功
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}
