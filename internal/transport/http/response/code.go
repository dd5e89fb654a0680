package response

// 错误码直接沿用 HTTP 语义，响应状态码与 code 一致（成功时 code=0，状态 200）
const (
	CodeOK                 = 0
	CodeBadRequest         = 400
	CodeUnauthorized       = 401
	CodeForbidden          = 403
	CodeNotFound           = 404
	CodeConflict           = 409
	CodeTooLarge           = 413
	CodeServerError        = 500
	CodeServiceUnavailable = 503
	CodeTimeout            = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:                 "OK",
	CodeBadRequest:         "Bad Request",
	CodeUnauthorized:       "Unauthorized",
	CodeForbidden:          "Forbidden",
	CodeNotFound:           "Not Found",
	CodeConflict:           "Conflict",
	CodeTooLarge:           "Request Entity Too Large",
	CodeServerError:        "Internal Server Error",
	CodeServiceUnavailable: "Service Unavailable",
	CodeTimeout:            "Gateway Timeout",
}

// Status code → HTTP 状态码
func Status(code int) int {
	if code == CodeOK {
		return 200
	}
	return code
}
