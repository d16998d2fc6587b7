package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"Campus_QA/internal/model"
	"Campus_QA/internal/pkg"
	"Campus_QA/internal/policy"
	"Campus_QA/internal/repository/mysql"

	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 6
)

var errInvalidLogin = pkg.Unauthenticated("invalid username or password")

type UserService struct {
	repo   UserStore
	tokens TokenStore
	jwt    *pkg.JWTManager
}

func NewUserService(repo UserStore, tokens TokenStore, jwt *pkg.JWTManager) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
		jwt:    jwt,
	}
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	return s.create(ctx, username, email, password, model.RoleUser)
}

func (s *UserService) create(ctx context.Context, username, email, password string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, pkg.InvalidParams("username must have 3 to 32 characters")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, pkg.InvalidParams("invalid email")
	}
	if len(password) < minPasswordLen {
		return nil, pkg.InvalidParams("password must have at least 6 characters")
	}

	exists, err := s.repo.Exists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, pkg.Conflict("username or email already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:       pkg.NewID(),
		Username: username,
		Password: string(hash),
		Email:    email,
		Role:     role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 登录成功后把 access token 写入 redis，旧的登录态随之失效
func (s *UserService) Login(ctx context.Context, username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return nil, errInvalidLogin
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errInvalidLogin
	}
	return s.issue(ctx, user)
}

func (s *UserService) issue(ctx context.Context, user *model.User) (*pkg.Pair, error) {
	token, err := s.jwt.GeneratePair(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}
	if err := s.tokens.AddUserToken(ctx, user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.tokens.DeleteUserToken(ctx, userID)
}

// Refresh 利用 refresh 换新的一对 token，重新读取用户以带上最新角色
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.jwt.ParseRefresh(refreshToken)
	if err != nil {
		return nil, pkg.Unauthenticated(err.Error())
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return nil, pkg.Unauthenticated("user not found")
		}
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *UserService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return nil, pkg.NotFound("user")
		}
		return nil, err
	}
	return user, nil
}

// SetRole 仅管理员可以调整角色；目标用户的登录态被清除，重新登录后新角色生效
func (s *UserService) SetRole(ctx context.Context, requester policy.Identity, userID string, role model.Role) (*model.User, error) {
	if requester.Anonymous() {
		return nil, pkg.Unauthenticated("login required")
	}
	if requester.Role != model.RoleAdmin {
		return nil, pkg.Forbidden("only admins can change roles")
	}
	if err := checkID(userID, "userId"); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, pkg.InvalidParams("invalid role")
	}

	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return nil, pkg.NotFound("user")
		}
		return nil, err
	}
	if err := s.tokens.DeleteUserToken(ctx, userID); err != nil {
		return nil, err
	}
	return s.Me(ctx, userID)
}

// EnsureAdmin 启动时创建管理员账号，已存在则跳过
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	exists, err := s.repo.Exists(ctx, strings.TrimSpace(username), strings.TrimSpace(email))
	if err != nil || exists {
		return err
	}
	_, err = s.create(ctx, username, email, password, model.RoleAdmin)
	return err
}
