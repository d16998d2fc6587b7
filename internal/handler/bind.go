package handler

import (
	"errors"
	"io"

	"Campus_QA/internal/pkg"

	"github.com/gin-gonic/gin"
)

// bindJSON 空请求体按零值处理，交给业务层给出具体的校验错误
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return pkg.InvalidParams("invalid params")
	}
	return nil
}
