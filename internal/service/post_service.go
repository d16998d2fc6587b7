package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"Campus_QA/internal/model"
	"Campus_QA/internal/pkg"
	"Campus_QA/internal/policy"
	"Campus_QA/internal/repository/mysql"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

type PostService struct {
	repo PostStore
	now  func() time.Time
}

func NewPostService(repo PostStore) *PostService {
	return &PostService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *PostService) Create(ctx context.Context, requester policy.Identity, body string) (*model.Post, error) {
	if requester.Anonymous() {
		return nil, pkg.Unauthenticated("login required")
	}
	body = strings.TrimSpace(body)
	if err := pkg.ValidateBody(body); err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:       pkg.NewID(),
		AuthorID: requester.ID,
		Body:     body,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List 帖子列表，page 从 1 开始
func (s *PostService) List(ctx context.Context, page, size int) ([]model.PostSummary, int, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	offset := (page - 1) * size
	list, err := s.repo.List(ctx, offset, size)
	if err != nil {
		return nil, 0, 0, err
	}
	return list, page, size, nil
}

// Detail 帖子详情；viewer 可以是匿名用户，CanDelete 只用于前端展示
func (s *PostService) Detail(ctx context.Context, viewer policy.Identity, postID string) (*model.PostDetail, error) {
	if err := checkID(postID, "postId"); err != nil {
		return nil, err
	}
	post, err := s.repo.FindDetail(ctx, postID)
	if err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return nil, pkg.NotFound("post")
		}
		return nil, err
	}

	answers := make([]model.AnswerDetail, 0, len(post.Answers))
	for _, a := range post.Answers {
		info := a.Author.Info()
		if info.ID == "" {
			info.ID = a.AuthorID
		}
		a.Author = nil
		answers = append(answers, model.AnswerDetail{
			Answer:     a,
			AuthorInfo: info,
			CanDelete:  !a.IsDeleted && policy.CanDelete(viewer, policy.ContentAnswer, a.AuthorID),
		})
	}

	authorInfo := post.Author.Info()
	if authorInfo.ID == "" {
		authorInfo.ID = post.AuthorID
	}
	return &model.PostDetail{
		ID:          post.ID,
		Body:        post.Body,
		AuthorInfo:  authorInfo,
		Answers:     answers,
		TotalAnswer: len(answers),
		CanDelete:   policy.CanDelete(viewer, policy.ContentPost, post.AuthorID),
		CreatedAt:   post.CreatedAt,
	}, nil
}

// Delete 帖子没有软删除：作者或版主/管理员都会连同回答一起硬删除
func (s *PostService) Delete(ctx context.Context, requester policy.Identity, postID string) error {
	if err := checkID(postID, "postId"); err != nil {
		return err
	}
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return pkg.NotFound("post")
		}
		return err
	}

	decision := policy.Decide(requester, policy.ContentPost, post.AuthorID)
	if !decision.Allowed {
		return denied(decision.Reason, policy.ContentPost)
	}

	var event *model.ModerationOutbox
	if requester.ID != post.AuthorID {
		event, err = newModerationEvent(model.EventPostRemoved, post.ID, post.ID, post.AuthorID, requester, s.now())
		if err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, post.ID, event); err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return pkg.NotFound("post")
		}
		return err
	}
	return nil
}
