package service

import (
	"context"
	"errors"
	"fmt"

	"listify/internal/core/auth"
	"listify/internal/core/credential"
	"listify/internal/domain"
	"listify/internal/policy"
)

type TokenIssuer interface {
	Issue(userID int64, roleID int) (string, *auth.Claims, error)
}

// OwnerLookup 歌单不存在时返回 domain.ErrResourceNotFound
type OwnerLookup interface {
	OwnerOf(ctx context.Context, playlistID int64) (int64, error)
}

// Guard 注册登录与写操作的授权判断；无状态，每次都回查存储
type Guard struct {
	users  domain.UserRepository
	owners OwnerLookup
	hasher credential.Hasher
	tokens TokenIssuer
}

func NewGuard(users domain.UserRepository, owners OwnerLookup, hasher credential.Hasher, tokens TokenIssuer) *Guard {
	return &Guard{users: users, owners: owners, hasher: hasher, tokens: tokens}
}

// AuthorizeRegistration 依次校验 email → password → nickname，遇错即返回，最后查重
func (g *Guard) AuthorizeRegistration(ctx context.Context, email, password, nickname string) error {
	if err := policy.CheckEmail(email); err != nil {
		return err
	}
	if err := policy.ValidatePassword(password); err != nil {
		return err
	}
	if err := policy.ValidateNickname(nickname); err != nil {
		return err
	}
	u, err := g.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u != nil {
		return domain.ErrDuplicateEmail
	}
	return nil
}

func (g *Guard) AuthorizeLogin(ctx context.Context, email, password string) (string, *auth.Claims, error) {
	if email == "" || password == "" {
		return "", nil, &policy.Error{Field: "credentials", Reason: "email and password are required"}
	}
	u, err := g.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, domain.ErrUnknownUser
	}
	ok, err := g.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify credential for user %d: %w", u.ID, err)
	}
	if !ok {
		return "", nil, domain.ErrBadCredential
	}
	return g.tokens.Issue(u.ID, u.RoleID)
}

// AuthorizeResourceMutation 不存在 → ErrResourceNotFound，非本人 → ErrNotOwner
func (g *Guard) AuthorizeResourceMutation(ctx context.Context, actorID, playlistID int64) error {
	owner, err := g.owners.OwnerOf(ctx, playlistID)
	if err != nil {
		return err
	}
	if owner != actorID {
		return domain.ErrNotOwner
	}
	return nil
}

func (g *Guard) RequireActiveActor(ctx context.Context, actorID int64) error {
	ok, err := g.users.ExistsAndActive(ctx, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInactiveUser
	}
	return nil
}

// RequireAdmin 管理端写操作：按存储中的状态与角色判断，不信任令牌里的角色
func (g *Guard) RequireAdmin(ctx context.Context, actorID int64) error {
	u, err := g.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrInactiveUser
	}
	if u.RoleID != domain.RoleAdmin {
		return domain.ErrForbiddenRole
	}
	return nil
}

// AuthorizeOwnedMutation 写操作的统一入口：先确认 actor 有效，再确认归属
func (g *Guard) AuthorizeOwnedMutation(ctx context.Context, actorID, playlistID int64) error {
	if err := g.RequireActiveActor(ctx, actorID); err != nil {
		return err
	}
	return g.AuthorizeResourceMutation(ctx, actorID, playlistID)
}

// passwordTooLong bcrypt 上限转成校验错误
func passwordTooLong(err error) error {
	if errors.Is(err, credential.ErrPasswordTooLong) {
		return &policy.Error{Field: "password", Reason: "must be at most 72 bytes"}
	}
	return err
}
