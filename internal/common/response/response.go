package response

import (
	"time"

	beego "github.com/beego/beego/v2/server/web"
)

// APIResponse 统一 API 响应结构
// 所有 API 都应该返回这个结构，无论成功还是失败
type APIResponse struct {
	Code      int         `json:"code"`                // 业务错误码：0=成功，非0=失败
	Message   string      `json:"message"`             // 错误消息
	Data      interface{} `json:"data,omitempty"`      // 业务数据（失败时为 null）
	TraceID   string      `json:"trace_id,omitempty"`  // 请求追踪ID
	Timestamp int64       `json:"timestamp,omitempty"` // 响应时间戳（Unix 毫秒）
}

// 错误码定义
const (
	CodeSuccess           = 0    // 成功
	CodeBadRequest        = 1000 // 参数错误
	CodeBusinessError     = 2000 // 业务错误（通用）
	CodeConflict          = 2001 // 资源冲突（重复条目/邮箱占用）
	CodeInvalidState      = 2002 // 状态不允许此操作
	CodeInsufficientFunds = 2003 // 余额不足
	CodeCapacityExceeded  = 2004 // 超出可购周期范围
	CodeUnauthorized      = 3000 // 未授权
	CodeInvalidToken      = 3001 // Token 无效
	CodeTokenExpired      = 3002 // Token 过期
	CodeTokenRevoked      = 3003 // Token 已撤销
	CodeForbidden         = 3009 // 禁止访问
	CodeRateLimitExceeded = 4000 // 请求频率超限
	CodeNotFound          = 4004 // 资源不存在
	CodeSystemError       = 5000 // 系统错误
)

// ErrorMessages 错误消息映射
var ErrorMessages = map[int]string{
	CodeSuccess:           "success",
	CodeBadRequest:        "参数错误",
	CodeBusinessError:     "业务处理失败",
	CodeConflict:          "资源冲突",
	CodeInvalidState:      "当前状态不允许此操作",
	CodeInsufficientFunds: "余额不足",
	CodeCapacityExceeded:  "超出可购买的周期范围",
	CodeUnauthorized:      "未授权",
	CodeForbidden:         "禁止访问",
	CodeRateLimitExceeded: "请求频率超限",
	CodeNotFound:          "资源不存在",
	CodeSystemError:       "系统繁忙，请稍后重试",
}

// Success 成功响应
func Success(c *beego.Controller, data interface{}, traceID string) {
	c.Data["json"] = APIResponse{
		Code:      CodeSuccess,
		Message:   ErrorMessages[CodeSuccess],
		Data:      data,
		TraceID:   traceID,
		Timestamp: time.Now().UnixMilli(),
	}
	c.ServeJSON()
}

// Error 错误响应（使用预定义的错误消息）
//
// 示例：
//
//	response.Error(c, 409, response.CodeInvalidState, traceID)
func Error(c *beego.Controller, httpStatus int, code int, traceID string) {
	c.Ctx.Output.SetStatus(httpStatus)
	c.Data["json"] = APIResponse{
		Code:      code,
		Message:   getErrorMessage(code),
		Data:      nil,
		TraceID:   traceID,
		Timestamp: time.Now().UnixMilli(),
	}
	c.ServeJSON()
}

// ErrorWithMessage 错误响应（使用自定义错误消息）
func ErrorWithMessage(c *beego.Controller, httpStatus int, code int, message string, traceID string) {
	c.Ctx.Output.SetStatus(httpStatus)
	c.Data["json"] = APIResponse{
		Code:      code,
		Message:   message,
		Data:      nil,
		TraceID:   traceID,
		Timestamp: time.Now().UnixMilli(),
	}
	c.ServeJSON()
}

// BadRequest 参数错误响应（HTTP 400）
func BadRequest(c *beego.Controller, message string, traceID string) {
	ErrorWithMessage(c, 400, CodeBadRequest, message, traceID)
}

// Conflict 资源冲突响应（HTTP 409）
func Conflict(c *beego.Controller, code int, message string, traceID string) {
	ErrorWithMessage(c, 409, code, message, traceID)
}

// NotFound 资源不存在响应（HTTP 404）
func NotFound(c *beego.Controller, message string, traceID string) {
	ErrorWithMessage(c, 404, CodeNotFound, message, traceID)
}

// Unauthorized 未授权响应（HTTP 401）
func Unauthorized(c *beego.Controller, message string, traceID string) {
	ErrorWithMessage(c, 401, CodeUnauthorized, message, traceID)
}

// Forbidden 禁止访问响应（HTTP 403）
func Forbidden(c *beego.Controller, traceID string) {
	Error(c, 403, CodeForbidden, traceID)
}

// InternalError 系统错误响应（HTTP 500）
// 注意：生产环境不应该暴露详细的错误信息，详情记录到日志
func InternalError(c *beego.Controller, traceID string) {
	Error(c, 500, CodeSystemError, traceID)
}

// getErrorMessage 获取错误消息，如果未定义则返回通用消息
func getErrorMessage(code int) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return "未知错误"
}
