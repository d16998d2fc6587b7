package service

import (
	"encoding/json"
	"time"

	"Campus_QA/internal/model"
	"Campus_QA/internal/pkg"
	"Campus_QA/internal/policy"
)

// newModerationEvent 构造版主操作的 outbox 记录
func newModerationEvent(eventType, contentID, postID, authorID string, moderator policy.Identity, at time.Time) (*model.ModerationOutbox, error) {
	payload, err := json.Marshal(model.ModerationEvent{
		EventType:         eventType,
		ContentID:         contentID,
		PostID:            postID,
		AuthorID:          authorID,
		ModeratorID:       moderator.ID,
		ModeratorUsername: moderator.Username,
		EventTime:         at.UTC(),
	})
	if err != nil {
		return nil, err
	}
	return &model.ModerationOutbox{
		EventType:   eventType,
		ContentID:   contentID,
		AuthorID:    authorID,
		ModeratorID: moderator.ID,
		Payload:     string(payload),
		Status:      model.OutboxPending,
	}, nil
}

// denied 将策略拒绝原因转换为对外错误
func denied(reason policy.Reason, kind policy.ContentKind) error {
	if reason == policy.Unauthenticated {
		return pkg.Unauthenticated("login required")
	}
	return pkg.Forbidden("You do not have permission to delete this " + kind.String())
}

// checkID 缺失与格式错误在访问存储之前返回
func checkID(id, name string) error {
	if id == "" {
		return pkg.MissingParameter(name)
	}
	if !pkg.ValidID(id) {
		return pkg.InvalidReference(name)
	}
	return nil
}
