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

type AnswerService struct {
	answers AnswerStore
	posts   PostStore
	now     func() time.Time
}

// AnswerDeletion 删除结果：Mode 为软删或硬删；AlreadyModerated 表示回答此前已被版主处理
type AnswerDeletion struct {
	Mode             policy.Mode
	Answer           *model.Answer
	AlreadyModerated bool
}

func NewAnswerService(answers AnswerStore, posts PostStore) *AnswerService {
	return &AnswerService{
		answers: answers,
		posts:   posts,
		now:     time.Now,
	}
}

// Create 回答问题。postId 校验先于正文校验，二者都在查库之前
func (s *AnswerService) Create(ctx context.Context, requester policy.Identity, postID, body string) (*model.Answer, error) {
	if requester.Anonymous() {
		return nil, pkg.Unauthenticated("login required")
	}
	if postID == "" {
		return nil, pkg.MissingParameter("postId")
	}
	if !pkg.ValidID(postID) {
		return nil, pkg.InvalidReference("postId")
	}
	body = strings.TrimSpace(body)
	if err := pkg.ValidateBody(body); err != nil {
		return nil, err
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return nil, pkg.NotFound("post")
		}
		return nil, err
	}

	answer := &model.Answer{
		ID:       pkg.NewID(),
		Content:  body,
		AuthorID: requester.ID,
		PostID:   postID,
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// Get 只读查询
func (s *AnswerService) Get(ctx context.Context, answerID string) (*model.Answer, error) {
	return s.load(ctx, answerID)
}

func (s *AnswerService) load(ctx context.Context, answerID string) (*model.Answer, error) {
	if err := checkID(answerID, "answerId"); err != nil {
		return nil, err
	}
	answer, err := s.answers.FindByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return nil, pkg.NotFound("answer")
		}
		return nil, err
	}
	return answer, nil
}

// Delete 作者硬删除自己的回答；版主/管理员软删除他人的回答并保留记录
func (s *AnswerService) Delete(ctx context.Context, requester policy.Identity, answerID string) (*AnswerDeletion, error) {
	answer, err := s.load(ctx, answerID)
	if err != nil {
		return nil, err
	}

	decision := policy.Decide(requester, policy.ContentAnswer, answer.AuthorID)
	if !decision.Allowed {
		return nil, denied(decision.Reason, policy.ContentAnswer)
	}

	// 被版主处理过的回答不再变更
	if answer.IsDeleted {
		return &AnswerDeletion{Answer: answer, AlreadyModerated: true}, nil
	}

	if decision.Mode == policy.SoftDelete {
		return s.moderate(ctx, requester, answer)
	}

	if err := s.answers.Delete(ctx, answer.ID); err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return nil, pkg.NotFound("answer")
		}
		return nil, err
	}
	return &AnswerDeletion{Mode: policy.HardDelete}, nil
}

func (s *AnswerService) moderate(ctx context.Context, moderator policy.Identity, answer *model.Answer) (*AnswerDeletion, error) {
	now := s.now()
	moderated := *answer
	moderated.Content = model.ModerationNotice(moderator.Username)
	moderated.IsDeleted = true
	moderatorID := moderator.ID
	moderated.DeletedBy = &moderatorID
	moderated.UpdatedAt = now

	event, err := newModerationEvent(model.EventAnswerModerated, answer.ID, answer.PostID, answer.AuthorID, moderator, now)
	if err != nil {
		return nil, err
	}

	affected, err := s.answers.Moderate(ctx, &moderated, event)
	if err != nil {
		return nil, err
	}
	if !affected {
		// 并发情况下已被其他版主处理
		current, err := s.load(ctx, answer.ID)
		if err != nil {
			return nil, err
		}
		return &AnswerDeletion{Answer: current, AlreadyModerated: true}, nil
	}
	return &AnswerDeletion{Mode: policy.SoftDelete, Answer: &moderated}, nil
}
