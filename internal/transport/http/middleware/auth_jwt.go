package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"listify/internal/core/auth"
	"listify/internal/domain"
	resp "listify/internal/transport/http/response"
)

const KeyClaims = "claims"

type TokenVerifier interface {
	VerifyToken(ctx context.Context, bearer string) (*auth.Claims, error)
}

// AuthJWT 校验 Authorization 头。requireRole 为 0 时不限角色。
// 通过后 claims 同时写入 gin.Context 与 request context，下游只认这里的身份。
func AuthJWT(v TokenVerifier, requireRole int) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := v.VerifyToken(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			resp.Fail(c, err)
			return
		}
		if requireRole != 0 && claims.RoleID != requireRole {
			resp.Fail(c, domain.ErrForbiddenRole)
			return
		}
		c.Set(KeyClaims, claims)
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}
