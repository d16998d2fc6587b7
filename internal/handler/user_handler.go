package handler

import (
	"net/http"

	"Campus_QA/internal/middleware"
	"Campus_QA/internal/model"
	"Campus_QA/internal/pkg"
	"Campus_QA/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

// RegisterReq 注册请求体
type RegisterReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type SetRoleReq struct {
	Role model.Role `json:"role" binding:"required"`
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register 注册接口
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Fail(c, pkg.InvalidParams("invalid params"))
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusCreated, user, "user registered")
}

// Login 登录接口
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Fail(c, pkg.InvalidParams("invalid params"))
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, token, "login success")
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.CurrentIdentity(c).ID); err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, gin.H{}, "logout success")
}

// TokenRefresh 利用refresh来更新access
func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Fail(c, pkg.InvalidParams("invalid params"))
		return
	}

	token, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, token, "token refreshed")
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), middleware.CurrentIdentity(c).ID)
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, user, "user found")
}

// SetRole 管理员调整用户角色
func (h *UserHandler) SetRole(c *gin.Context) {
	var req SetRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.Fail(c, pkg.InvalidParams("invalid params"))
		return
	}

	user, err := h.svc.SetRole(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("userId"), req.Role)
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, user, "role updated")
}
