package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "listify/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小，超限时返回 413
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, resp.Error(resp.CodeTooLarge, "request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// IsBodyTooLarge 绑定失败时由 handler 判断是否为超限
func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
