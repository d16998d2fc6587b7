package pkg

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一返回结构
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

func Success(c *gin.Context, status int, data any, msg string) {
	c.JSON(status, Response{StatusCode: status, Data: data, Message: msg})
}

// Fail 业务错误按 APIError 返回，其余错误记录日志后统一返回 500
func Fail(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, Response{StatusCode: apiErr.Status, Message: apiErr.Message})
		return
	}
	log.Printf("[HANDLER] %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
		StatusCode: http.StatusInternalServerError,
		Message:    "internal server error",
	})
}
