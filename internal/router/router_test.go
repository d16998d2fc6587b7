package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Campus_QA/internal/handler"
	"Campus_QA/internal/middleware"
	"Campus_QA/internal/model"
	"Campus_QA/internal/pkg"
	"Campus_QA/internal/service"
	"Campus_QA/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
}

type testApp struct {
	t     *testing.T
	r     *gin.Engine
	store *testkit.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testkit.NewStore()
	jwt := pkg.NewJWTManager("access-test", "refresh-test", time.Minute, time.Hour)
	users := service.NewUserService(store.Users(), store.Tokens(), jwt)

	r := InitRouter(Deps{
		User:         handler.NewUserHandler(users),
		Post:         handler.NewPostHandler(service.NewPostService(store.Posts())),
		Answer:       handler.NewAnswerHandler(service.NewAnswerService(store.Answers(), store.Posts())),
		Auth:         middleware.NewAuth(jwt, store.Tokens()),
		AllowOrigins: []string{"*"},
	})
	return &testApp{t: t, r: r, store: store}
}

func (a *testApp) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

// signup 注册并登录，role 非 USER 时直接改库后重新登录
func (a *testApp) signup(name string, role model.Role) (string, string) {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/v1/user/register", "", gin.H{
		"username": name,
		"email":    name + "@campus.edu",
		"password": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	var user model.User
	require.NoError(a.t, json.Unmarshal(env.Data, &user))

	if role != model.RoleUser {
		require.NoError(a.t, a.store.Users().UpdateRole(context.Background(), user.ID, role))
	}

	code, env = a.do(http.MethodPost, "/api/v1/user/login", "", gin.H{"username": name, "password": "secret123"})
	require.Equal(a.t, http.StatusOK, code, env.Message)
	var pair pkg.Pair
	require.NoError(a.t, json.Unmarshal(env.Data, &pair))
	return user.ID, pair.AccessToken
}

func (a *testApp) createPost(token, body string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/v1/posts", token, gin.H{"body": body})
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	var post model.Post
	require.NoError(a.t, json.Unmarshal(env.Data, &post))
	return post.ID
}

func (a *testApp) createAnswer(token, postID, body string) model.Answer {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/v1/posts/"+postID+"/answers", token, gin.H{"body": body})
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	var answer model.Answer
	require.NoError(a.t, json.Unmarshal(env.Data, &answer))
	return answer
}

func TestPing(t *testing.T) {
	app := newTestApp(t)
	code, _ := app.do(http.MethodGet, "/api/v1/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCreateAnswer(t *testing.T) {
	app := newTestApp(t)
	_, asker := app.signup("vic", model.RoleUser)
	umarID, umar := app.signup("umar", model.RoleUser)
	postID := app.createPost(asker, "Where is the campus library?")

	answer := app.createAnswer(umar, postID, "  Next to the main hall.  ")
	assert.Equal(t, "Next to the main hall.", answer.Content)
	assert.Equal(t, umarID, answer.AuthorID)
	assert.Equal(t, postID, answer.PostID)
	assert.False(t, answer.IsDeleted)

	cases := []struct {
		name   string
		token  string
		path   string
		body   any
		status int
	}{
		{"anonymous", "", "/api/v1/posts/" + postID + "/answers", gin.H{"body": "Next to the main hall."}, http.StatusUnauthorized},
		{"missing body", umar, "/api/v1/posts/" + postID + "/answers", nil, http.StatusBadRequest},
		{"blank body", umar, "/api/v1/posts/" + postID + "/answers", gin.H{"body": "    "}, http.StatusBadRequest},
		{"short body", umar, "/api/v1/posts/" + postID + "/answers", gin.H{"body": "too short"}, http.StatusBadRequest},
		{"malformed post id", umar, "/api/v1/posts/not-an-id/answers", gin.H{"body": "Next to the main hall."}, http.StatusBadRequest},
		{"malformed post id with empty body", umar, "/api/v1/posts/not-an-id/answers", gin.H{"body": ""}, http.StatusBadRequest},
		{"unknown post", umar, "/api/v1/posts/" + pkg.NewID() + "/answers", gin.H{"body": "Next to the main hall."}, http.StatusNotFound},
		{"broken json", umar, "/api/v1/posts/" + postID + "/answers", "{", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := app.do(http.MethodPost, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, code)
			assert.Equal(t, tc.status, env.StatusCode)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestGetAnswer(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signup("vic", model.RoleUser)
	postID := app.createPost(token, "Where is the campus library?")
	answer := app.createAnswer(token, postID, "Next to the main hall.")

	code, env := app.do(http.MethodGet, "/api/v1/answers/"+answer.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "answer found", env.Message)

	code, _ = app.do(http.MethodGet, "/api/v1/answers/bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = app.do(http.MethodGet, "/api/v1/answers/"+pkg.NewID(), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "no answer found", env.Message)
}

func TestDeleteAnswerByAuthor(t *testing.T) {
	app := newTestApp(t)
	_, asker := app.signup("vic", model.RoleUser)
	_, umar := app.signup("umar", model.RoleUser)
	postID := app.createPost(asker, "Where is the campus library?")
	answer := app.createAnswer(umar, postID, "Next to the main hall.")

	code, env := app.do(http.MethodDelete, "/api/v1/answers/"+answer.ID, umar, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "answer successfully deleted", env.Message)
	assert.JSONEq(t, `{}`, string(env.Data))

	code, _ = app.do(http.MethodGet, "/api/v1/answers/"+answer.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Empty(t, app.store.Events())
}

func TestDeleteAnswerByModerator(t *testing.T) {
	app := newTestApp(t)
	_, asker := app.signup("vic", model.RoleUser)
	_, umar := app.signup("umar", model.RoleUser)
	monaID, mona := app.signup("mona", model.RoleModerator)
	postID := app.createPost(asker, "Where is the campus library?")
	answer := app.createAnswer(umar, postID, "Next to the main hall.")

	// 非作者的普通用户无权删除
	code, env := app.do(http.MethodDelete, "/api/v1/answers/"+answer.ID, asker, nil)
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You do not have permission to delete this answer", env.Message)

	code, env = app.do(http.MethodDelete, "/api/v1/answers/"+answer.ID, mona, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "answer deleted by moderator", env.Message)

	var moderated model.Answer
	require.NoError(t, json.Unmarshal(env.Data, &moderated))
	assert.True(t, moderated.IsDeleted)
	assert.Equal(t, "[This answer was deleted by moderator: mona]", moderated.Content)
	require.NotNil(t, moderated.DeletedBy)
	assert.Equal(t, monaID, *moderated.DeletedBy)

	// 记录仍可查询
	code, env = app.do(http.MethodGet, "/api/v1/answers/"+answer.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	var stored model.Answer
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	assert.True(t, stored.IsDeleted)

	code, env = app.do(http.MethodDelete, "/api/v1/answers/"+answer.ID, mona, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "answer already deleted by moderator", env.Message)

	events := app.store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventAnswerModerated, events[0].EventType)
	assert.Equal(t, answer.ID, events[0].ContentID)
}

func TestDeleteAnswerRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signup("vic", model.RoleUser)
	postID := app.createPost(token, "Where is the campus library?")
	answer := app.createAnswer(token, postID, "Next to the main hall.")

	code, _ := app.do(http.MethodDelete, "/api/v1/answers/"+answer.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(http.MethodDelete, "/api/v1/answers/"+answer.ID, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestPostDetailAndList(t *testing.T) {
	app := newTestApp(t)
	_, asker := app.signup("vic", model.RoleUser)
	_, umar := app.signup("umar", model.RoleUser)
	postID := app.createPost(asker, "Where is the campus library?")
	app.createAnswer(umar, postID, "Next to the main hall.")

	code, env := app.do(http.MethodGet, "/api/v1/posts/"+postID, umar, nil)
	require.Equal(t, http.StatusOK, code)
	var detail model.PostDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "vic", detail.AuthorInfo.Username)
	assert.False(t, detail.CanDelete)
	require.Len(t, detail.Answers, 1)
	assert.True(t, detail.Answers[0].CanDelete)
	assert.Equal(t, "umar", detail.Answers[0].AuthorInfo.Username)

	code, env = app.do(http.MethodGet, "/api/v1/posts?page=1&size=10", "", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		List []model.PostSummary `json:"list"`
		Page int                 `json:"page"`
		Size int                 `json:"size"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.List, 1)
	assert.EqualValues(t, 1, page.List[0].TotalAnswer)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Size)

	code, _ = app.do(http.MethodGet, "/api/v1/posts?page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDeletePostByAdmin(t *testing.T) {
	app := newTestApp(t)
	_, asker := app.signup("vic", model.RoleUser)
	_, umar := app.signup("umar", model.RoleUser)
	_, ada := app.signup("ada", model.RoleAdmin)
	postID := app.createPost(asker, "Where is the campus library?")
	answer := app.createAnswer(umar, postID, "Next to the main hall.")

	code, _ := app.do(http.MethodDelete, "/api/v1/posts/"+postID, umar, nil)
	require.Equal(t, http.StatusForbidden, code)

	code, env := app.do(http.MethodDelete, "/api/v1/posts/"+postID, ada, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "post deleted", env.Message)

	code, _ = app.do(http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = app.do(http.MethodGet, "/api/v1/answers/"+answer.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	events := app.store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventPostRemoved, events[0].EventType)
}

func TestAccountRoutes(t *testing.T) {
	app := newTestApp(t)
	umarID, umar := app.signup("umar", model.RoleUser)
	_, ada := app.signup("ada", model.RoleAdmin)

	code, env := app.do(http.MethodGet, "/api/v1/auth/me", umar, nil)
	require.Equal(t, http.StatusOK, code)
	var me model.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, umarID, me.ID)
	assert.Empty(t, me.Password)

	// 普通用户不能调整角色
	code, _ = app.do(http.MethodPut, "/api/v1/admin/users/"+umarID+"/role", umar, gin.H{"role": "MODERATOR"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = app.do(http.MethodPut, "/api/v1/admin/users/"+umarID+"/role", ada, gin.H{"role": "MODERATOR"})
	require.Equal(t, http.StatusOK, code)
	var updated model.User
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, model.RoleModerator, updated.Role)

	// 角色变更后旧 token 失效
	code, _ = app.do(http.MethodGet, "/api/v1/auth/me", umar, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(http.MethodPost, "/api/v1/auth/logout", ada, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(http.MethodGet, "/api/v1/auth/me", ada, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(http.MethodPost, "/api/v1/user/register", "", gin.H{
		"username": "umar", "email": "umar@campus.edu", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestTokenRefresh(t *testing.T) {
	app := newTestApp(t)
	app.signup("umar", model.RoleUser)

	code, env := app.do(http.MethodPost, "/api/v1/user/login", "", gin.H{"username": "umar", "password": "secret123"})
	require.Equal(t, http.StatusOK, code)
	var pair pkg.Pair
	require.NoError(t, json.Unmarshal(env.Data, &pair))

	code, env = app.do(http.MethodPost, "/api/v1/token/refresh", "", gin.H{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, code)
	var refreshed pkg.Pair
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))

	code, _ = app.do(http.MethodGet, "/api/v1/auth/me", refreshed.AccessToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = app.do(http.MethodPost, "/api/v1/token/refresh", "", gin.H{"refreshToken": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(http.MethodPost, "/api/v1/user/login", "", gin.H{"username": "umar", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, code)
}
