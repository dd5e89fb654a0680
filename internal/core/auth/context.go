package auth

import (
	"context"

	"listify/internal/domain"
)

type claimsKey struct{}

// WithClaims 鉴权中间件写入已验证的 claims
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// ActorID 写操作的调用者身份只从这里取，缺失视为未携带令牌
func ActorID(ctx context.Context) (int64, error) {
	c, ok := ClaimsFrom(ctx)
	if !ok {
		return 0, domain.ErrMissingToken
	}
	return c.UserID, nil
}
