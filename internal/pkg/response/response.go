package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	CodeSuccess          = 0
	CodeParamError       = 1000
	CodeAuthFailed       = 1001
	CodePermissionDenied = 1002
	CodeResourceNotFound = 1003
	CodeConflict         = 1005
	CodeServerError      = 5000
	CodeUnavailable      = 5003
)

// RequestIDKey 请求日志中间件写入 gin.Context 的 key
const RequestIDKey = "requestID"

var codeMessages = map[int]string{
	CodeSuccess:          "success",
	CodeParamError:       "参数错误",
	CodeAuthFailed:       "认证失败",
	CodePermissionDenied: "权限不足",
	CodeResourceNotFound: "资源不存在",
	CodeConflict:         "资源冲突",
	CodeServerError:      "服务器内部错误",
	CodeUnavailable:      "服务暂不可用",
}

// Response 统一响应结构，业务错误同样返回 HTTP 200
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// ListData 列表数据，订阅列表不分页
type ListData struct {
	Count int         `json:"count"`
	Items interface{} `json:"items"`
}

// Message 返回错误码的默认消息
func Message(code int) string {
	return codeMessages[code]
}

func write(c *gin.Context, code int, message string, data interface{}) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(http.StatusOK, Response{
		Code:      code,
		Message:   message,
		Data:      data,
		RequestID: c.GetString(RequestIDKey),
	})
}

func Success(c *gin.Context, data interface{}) {
	write(c, CodeSuccess, "", data)
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	write(c, CodeSuccess, message, data)
}

// SuccessList items 为 nil 时返回空数组而不是 null
func SuccessList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	write(c, CodeSuccess, "", ListData{Count: len(items), Items: items})
}

// Error message 为空时使用错误码的默认消息
func Error(c *gin.Context, code int, message string) {
	write(c, code, message, nil)
}

func ParamError(c *gin.Context, message string)       { Error(c, CodeParamError, message) }
func AuthError(c *gin.Context, message string)        { Error(c, CodeAuthFailed, message) }
func PermissionError(c *gin.Context, message string)  { Error(c, CodePermissionDenied, message) }
func NotFoundError(c *gin.Context, message string)    { Error(c, CodeResourceNotFound, message) }
func ConflictError(c *gin.Context, message string)    { Error(c, CodeConflict, message) }
func UnavailableError(c *gin.Context, message string) { Error(c, CodeUnavailable, message) }
func ServerError(c *gin.Context, message string)      { Error(c, CodeServerError, message) }
