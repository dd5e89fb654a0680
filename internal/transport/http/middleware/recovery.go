package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "listify/internal/transport/http/response"
)

// Recovery panic 时记录堆栈，并按统一信封返回 500
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		resp.Abort(c, resp.Error(resp.CodeServerError, "internal error"))
	})
}
