package response

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"listify/internal/domain"
	"listify/internal/policy"
)

type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// OK 成功响应
func OK(data any) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// FromError 错误 → 响应，全项目唯一的映射点。未识别的错误一律 500，不外泄细节。
func FromError(err error) Resp {
	var pe *policy.Error
	switch {
	case errors.As(err, &pe):
		return Error(CodeBadRequest, pe.Error())
	case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrAlreadyInPlaylist):
		return Error(CodeConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return Error(CodeBadRequest, err.Error())

	// 不区分用户不存在与密码错误
	case errors.Is(err, domain.ErrAuthFailed):
		return Error(CodeUnauthorized, "invalid email or password")
	case errors.Is(err, domain.ErrToken):
		return Error(CodeUnauthorized, err.Error())

	case errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrForbiddenRole):
		return Error(CodeForbidden, err.Error())
	case errors.Is(err, domain.ErrAuthz), errors.Is(err, domain.ErrUserNotFound):
		return Error(CodeNotFound, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return Error(CodeTimeout, "timeout")
	default:
		return Error(CodeServerError, "internal error")
	}
}

func JSON(c *gin.Context, r Resp) { c.JSON(Status(r.Code), r) }

func Abort(c *gin.Context, r Resp) { c.AbortWithStatusJSON(Status(r.Code), r) }

// Fail 记录到 gin 错误链（访问日志会带上）后写响应
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	Abort(c, FromError(err))
}
