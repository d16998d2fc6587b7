package handler

import (
	"net/http"

	"Campus_QA/internal/middleware"
	"Campus_QA/internal/pkg"
	"Campus_QA/internal/policy"
	"Campus_QA/internal/service"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	svc *service.AnswerService
}

type CreateAnswerReq struct {
	Body string `json:"body"`
}

func NewAnswerHandler(svc *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{svc: svc}
}

// Create 回答问题
func (h *AnswerHandler) Create(c *gin.Context) {
	var req CreateAnswerReq
	if err := bindJSON(c, &req); err != nil {
		pkg.Fail(c, err)
		return
	}

	answer, err := h.svc.Create(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("postId"), req.Body)
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusCreated, answer, "answer created")
}

func (h *AnswerHandler) Get(c *gin.Context) {
	answer, err := h.svc.Get(c.Request.Context(), c.Param("answerId"))
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, answer, "answer found")
}

// Delete 作者删除返回空对象，版主删除返回处理后的回答
func (h *AnswerHandler) Delete(c *gin.Context) {
	res, err := h.svc.Delete(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("answerId"))
	if err != nil {
		pkg.Fail(c, err)
		return
	}

	switch {
	case res.AlreadyModerated:
		pkg.Success(c, http.StatusOK, res.Answer, "answer already deleted by moderator")
	case res.Mode == policy.SoftDelete:
		pkg.Success(c, http.StatusOK, res.Answer, "answer deleted by moderator")
	default:
		pkg.Success(c, http.StatusOK, gin.H{}, "answer successfully deleted")
	}
}
