// Package testkit 提供内存版仓储，供 service 与 handler 的测试使用
package testkit

import (
	"context"
	"sort"
	"sync"

	"Campus_QA/internal/model"
	"Campus_QA/internal/repository/mysql"
)

type Store struct {
	mu      sync.Mutex
	users   map[string]*model.User
	posts   map[string]*model.Post
	answers map[string]*model.Answer
	outbox  []*model.ModerationOutbox
	tokens  map[string]string
}

func NewStore() *Store {
	return &Store{
		users:   map[string]*model.User{},
		posts:   map[string]*model.Post{},
		answers: map[string]*model.Answer{},
		tokens:  map[string]string{},
	}
}

type Users struct{ *Store }
type Posts struct{ *Store }
type Answers struct{ *Store }
type Outbox struct{ *Store }
type Tokens struct{ *Store }

func (m Users) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m Users) FindByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mysql.ErrNotFound
}

func (m Users) FindByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m Users) Exists(_ context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m Users) UpdateRole(_ context.Context, id string, role model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return mysql.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m Posts) Create(_ context.Context, p *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m Posts) FindByID(_ context.Context, id string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m Posts) FindDetail(_ context.Context, id string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	cp := *p
	if u, ok := m.users[p.AuthorID]; ok {
		author := *u
		cp.Author = &author
	}
	for _, a := range m.answers {
		if a.PostID != id {
			continue
		}
		ac := *a
		if u, ok := m.users[a.AuthorID]; ok {
			author := *u
			ac.Author = &author
		}
		cp.Answers = append(cp.Answers, ac)
	}
	sort.Slice(cp.Answers, func(i, j int) bool {
		if cp.Answers[i].CreatedAt.Equal(cp.Answers[j].CreatedAt) {
			return cp.Answers[i].ID < cp.Answers[j].ID
		}
		return cp.Answers[i].CreatedAt.Before(cp.Answers[j].CreatedAt)
	})
	return &cp, nil
}

func (m Posts) List(_ context.Context, offset, limit int) ([]model.PostSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []model.PostSummary
	for _, p := range m.posts {
		var n int64
		for _, a := range m.answers {
			if a.PostID == p.ID {
				n++
			}
		}
		list = append(list, model.PostSummary{ID: p.ID, Body: p.Body, AuthorInfo: m.users[p.AuthorID].Info(), TotalAnswer: n, CreatedAt: p.CreatedAt})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	if offset >= len(list) {
		return []model.PostSummary{}, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m Posts) Delete(_ context.Context, id string, event *model.ModerationOutbox) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return mysql.ErrNotFound
	}
	for aid, a := range m.answers {
		if a.PostID == id {
			delete(m.answers, aid)
		}
	}
	delete(m.posts, id)
	if event != nil {
		m.appendOutbox(event)
	}
	return nil
}

func (m Answers) Create(_ context.Context, a *model.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.answers[a.ID] = &cp
	return nil
}

func (m Answers) FindByID(_ context.Context, id string) (*model.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.answers[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m Answers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.answers[id]; !ok {
		return mysql.ErrNotFound
	}
	delete(m.answers, id)
	return nil
}

func (m Answers) Moderate(_ context.Context, a *model.Answer, event *model.ModerationOutbox) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.answers[a.ID]
	if !ok || cur.IsDeleted {
		return false, nil
	}
	cur.Content = a.Content
	cur.IsDeleted = true
	cur.DeletedBy = a.DeletedBy
	cur.UpdatedAt = a.UpdatedAt
	if event != nil {
		m.appendOutbox(event)
	}
	return true, nil
}

func (m *Store) appendOutbox(event *model.ModerationOutbox) {
	cp := *event
	cp.ID = uint64(len(m.outbox) + 1)
	m.outbox = append(m.outbox, &cp)
}

func (m Outbox) List(_ context.Context, batchSize int) ([]model.ModerationOutbox, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []model.ModerationOutbox
	for _, ob := range m.outbox {
		if ob.Status == model.OutboxPending && len(list) < batchSize {
			list = append(list, *ob)
		}
	}
	return list, nil
}

func (m Outbox) RetryUpdate(_ context.Context, ob *model.ModerationOutbox, maxRetries int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.outbox[ob.ID-1]
	cur.Retry++
	if cur.Retry >= maxRetries {
		cur.Status = model.OutboxFailed
	}
	return nil
}

func (m Outbox) SuccessUpdate(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outbox[id-1].Status = model.OutboxSent
	return nil
}

func (m Tokens) AddUserToken(_ context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[userID] = token
	return nil
}

func (m Tokens) GetUserToken(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[userID]
	if !ok {
		return "", mysql.ErrNotFound
	}
	return t, nil
}

func (m Tokens) ExtendUserToken(context.Context, string) error { return nil }

func (m Tokens) DeleteUserToken(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, userID)
	return nil
}

func (m *Store) Users() Users { return Users{m} }
func (m *Store) Posts() Posts { return Posts{m} }
func (m *Store) Answers() Answers { return Answers{m} }
func (m *Store) Outbox() Outbox { return Outbox{m} }
func (m *Store) Tokens() Tokens { return Tokens{m} }

// Events 返回已写入的 outbox 记录副本
func (m *Store) Events() []model.ModerationOutbox {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ModerationOutbox, 0, len(m.outbox))
	for _, ob := range m.outbox {
		out = append(out, *ob)
	}
	return out
}

// Token 当前保存的登录 token
func (m *Store) Token(userID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[userID]
	return t, ok
}
