package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"listify/internal/core/auth"
	"listify/internal/core/credential"
	"listify/internal/domain"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Revocations interface {
	RevokeUser(ctx context.Context, userID int64) error
	IsRevoked(ctx context.Context, c *auth.Claims) (bool, error)
}

type AuthService struct {
	guard       *Guard
	users       domain.UserRepository
	hasher      credential.Hasher
	tokens      TokenVerifier
	revocations Revocations
	log         *zap.Logger
}

func NewAuthService(
	guard *Guard,
	users domain.UserRepository,
	hasher credential.Hasher,
	tokens TokenVerifier,
	revocations Revocations,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		guard:       guard,
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		revocations: revocations,
		log:         log.Named("auth"),
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Nickname string
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	Claims      *auth.Claims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (u *domain.User, err error) {
	defer func() { observe("register", err) }()

	if err = s.guard.AuthorizeRegistration(ctx, in.Email, in.Password, in.Nickname); err != nil {
		s.log.Info("register rejected", zap.String("email", in.Email), zap.String("reason", outcome(err)))
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, passwordTooLong(err)
	}
	u = &domain.User{
		RoleID:       domain.RoleUser,
		Email:        in.Email,
		PasswordHash: hash,
		Nickname:     strings.TrimSpace(in.Nickname),
	}
	// 查重与插入之间的竞争由唯一索引兜底
	if err = s.users.Create(ctx, u); err != nil {
		s.log.Info("register rejected", zap.String("email", in.Email), zap.String("reason", outcome(err)))
		return nil, err
	}
	s.log.Info("register ok", zap.Int64("user_id", u.ID))
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (res *LoginResult, err error) {
	defer func() { observe("login", err) }()

	token, claims, err := s.guard.AuthorizeLogin(ctx, email, password)
	if err != nil {
		s.log.Info("login failed", zap.String("email", email), zap.String("reason", outcome(err)))
		return nil, err
	}
	s.log.Info("login ok", zap.Int64("user_id", claims.UserID))
	return &LoginResult{AccessToken: token, TokenType: "Bearer", Claims: claims}, nil
}

// VerifyToken 校验 "Bearer <token>" 头；撤销表查询失败时放行并告警，
// 写操作仍会经过 Guard 的 ExistsAndActive 复查
func (s *AuthService) VerifyToken(ctx context.Context, bearer string) (c *auth.Claims, err error) {
	defer func() { observe("verify", err) }()

	raw, err := auth.ParseBearer(bearer)
	if err != nil {
		return nil, err
	}
	c, err = s.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}
	if s.revocations != nil {
		revoked, rerr := s.revocations.IsRevoked(ctx, c)
		if rerr != nil {
			s.log.Warn("revocation check failed", zap.Int64("user_id", c.UserID), zap.Error(rerr))
		}
		if revoked {
			return nil, domain.ErrRevokedToken
		}
	}
	return c, nil
}
