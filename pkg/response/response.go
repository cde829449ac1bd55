package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 是统一的 API 响应包装。
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Success 以 200 返回成功响应。
func Success(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// SuccessWithStatus 以指定状态码返回成功响应（如 201）。
func SuccessWithStatus(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
		Data:    data,
	})
}

// Fail 以指定状态码返回失败响应。
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
		Data:    nil,
	})
}
