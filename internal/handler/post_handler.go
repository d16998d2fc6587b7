package handler

import (
	"net/http"
	"strconv"

	"Campus_QA/internal/middleware"
	"Campus_QA/internal/pkg"
	"Campus_QA/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

type CreatePostReq struct {
	Body string `json:"body"`
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// CreatePost 创建帖子接口
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostReq
	if err := bindJSON(c, &req); err != nil {
		pkg.Fail(c, err)
		return
	}

	post, err := h.svc.Create(c.Request.Context(), middleware.CurrentIdentity(c), req.Body)
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusCreated, post, "post created")
}

// ListPosts 获取帖子列表接口，page/size 不传时使用默认值
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		pkg.Fail(c, pkg.InvalidParams("invalid page"))
		return
	}
	size, err := queryInt(c, "size")
	if err != nil {
		pkg.Fail(c, pkg.InvalidParams("invalid size"))
		return
	}

	list, page, size, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, gin.H{
		"list": list,
		"page": page,
		"size": size,
	}, "posts found")
}

// GetPost 帖子详情，登录用户额外得到 canDelete 提示
func (h *PostHandler) GetPost(c *gin.Context) {
	detail, err := h.svc.Detail(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("postId"))
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, detail, "post found")
}

// DeletePost 删除帖子接口
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("postId")); err != nil {
		pkg.Fail(c, err)
		return
	}
	pkg.Success(c, http.StatusOK, gin.H{}, "post deleted")
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
