package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"listify/internal/domain"
)

// TokenTTL 固定 24h，不可配置
const TokenTTL = 24 * time.Hour

var ErrEmptySecret = errors.New("auth: signing secret is empty")

// Claims 令牌载荷。时间字段为 Unix 秒。
type Claims struct {
	UserID    int64  `json:"user_id"`
	RoleID    int    `json:"role_id"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"expires_at"`
	Issuer    string `json:"iss,omitempty"`
}

func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c *Claims) GetIssuer() (string, error)              { return c.Issuer, nil }
func (c *Claims) GetSubject() (string, error)             { return "", nil }
func (c *Claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

func (c *Claims) Expires() time.Time { return time.Unix(c.ExpiresAt, 0) }

type JWTer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type Option func(*JWTer)

// WithClock 替换时钟，测试用
func WithClock(now func() time.Time) Option {
	return func(j *JWTer) { j.now = now }
}

func NewJWTer(secret, issuer string, opts ...Option) (*JWTer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	j := &JWTer{secret: []byte(secret), issuer: issuer, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Issue 签发 HS256 令牌，expires_at = iat + 24h
func (j *JWTer) Issue(userID int64, roleID int) (string, *Claims, error) {
	now := j.now().Truncate(time.Second)
	claims := &Claims{
		UserID:    userID,
		RoleID:    roleID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(TokenTTL).Unix(),
		Issuer:    j.issuer,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Verify 先对原始 header.payload 验签，再解码 claims，最后按当前时钟判断过期
func (j *JWTer) Verify(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, domain.ErrMalformedToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, domain.ErrMalformedToken
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, j.secret); err != nil {
		return nil, domain.ErrInvalidSignature
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(j.issuer))
	}

	claims := &Claims{}
	t, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, parserOpts...)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return nil, domain.ErrMalformedToken
	default:
		return nil, domain.ErrInvalidSignature
	}
	if !t.Valid || claims.UserID <= 0 {
		return nil, domain.ErrMalformedToken
	}
	return claims, nil
}

// ParseBearer 从 "Bearer <token>" 中取出令牌
func ParseBearer(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", domain.ErrMissingToken
	}
	scheme, tok, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", domain.ErrMalformedToken
	}
	return strings.TrimSpace(tok), nil
}
