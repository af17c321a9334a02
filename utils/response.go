// file: utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务错误码，HTTP 状态与错误码一一对应返回给前端
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"
	CodeSelfSolve    = "SELF_SOLVE_BLOCKED"
	CodeIncorrect    = "INCORRECT_FLAG"
	CodeInvalid      = "INVALID_REQUEST"
	CodeRateLimited  = "RATE_LIMIT_EXCEEDED"
	CodeServerError  = "SERVER_ERROR"
	CodeDuplicate    = "DUPLICATE"
	CodeUnauthorized = "UNAUTHORIZED"
)

type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// AppError 领域层预期内的失败（自解、Flag 错误、积分不足等），
// 带着 HTTP 状态码向上传递，到控制器统一转成响应
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func NotFound(message string) *AppError {
	return NewError(http.StatusNotFound, CodeNotFound, message)
}

func Validation(message string) *AppError {
	return NewError(http.StatusBadRequest, CodeValidation, message)
}

func Forbidden(message string) *AppError {
	return NewError(http.StatusForbidden, CodeForbidden, message)
}

func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{Success: false, Error: code, Message: message})
}

// Fail 区分预期内的领域错误和预期外的内部错误；
// 内部错误不向客户端泄露细节，细节只进日志
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		Error(c, appErr.Status, appErr.Code, appErr.Message)
		return
	}
	Error(c, http.StatusInternalServerError, CodeServerError, "Internal server error")
}
