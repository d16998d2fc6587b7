package mysql

import (
	"context"
	"time"

	"Campus_QA/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	if err := r.DB.WithContext(ctx).Create(post).Error; err != nil {
		return errors.Wrap(err, "create post")
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.DB.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(notFound(err), "find post %s", id)
	}
	return &post, nil
}

// FindDetail 帖子详情：作者、回答（按时间正序）以及回答作者
func (r *PostRepository) FindDetail(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Answers.Author").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrapf(notFound(err), "find post detail %s", id)
	}
	return &post, nil
}

type postRow struct {
	ID          string
	AuthorID    string
	Body        string
	CreatedAt   time.Time
	Username    string
	TotalAnswer int64
}

// List 基础分页查询，最新的在前
func (r *PostRepository) List(ctx context.Context, offset, limit int) ([]model.PostSummary, error) {
	var rows []postRow
	err := r.DB.WithContext(ctx).
		Model(&model.Post{}).
		Select("posts.id, posts.author_id, posts.body, posts.created_at, users.username AS username, " +
			"(SELECT COUNT(*) FROM answers WHERE answers.post_id = posts.id) AS total_answer").
		Joins("LEFT JOIN users ON users.id = posts.author_id").
		Order("posts.created_at DESC, posts.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}

	list := make([]model.PostSummary, 0, len(rows))
	for _, row := range rows {
		list = append(list, model.PostSummary{
			ID:          row.ID,
			Body:        row.Body,
			AuthorInfo:  model.AuthorInfo{ID: row.AuthorID, Username: row.Username},
			TotalAnswer: row.TotalAnswer,
			CreatedAt:   row.CreatedAt,
		})
	}
	return list, nil
}

// Delete 硬删除帖子及其全部回答；event 不为空时同一事务写入 outbox
func (r *PostRepository) Delete(ctx context.Context, id string, event *model.ModerationOutbox) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
			return errors.Wrapf(err, "delete answers of post %s", id)
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "delete post %s", id)
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrNotFound, "delete post %s", id)
		}
		if event != nil {
			if err := tx.Create(event).Error; err != nil {
				return errors.Wrap(err, "insert outbox")
			}
		}
		return nil
	})
}
