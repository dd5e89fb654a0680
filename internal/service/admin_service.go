package service

import (
	"context"

	"go.uber.org/zap"

	"listify/internal/domain"
	"listify/internal/policy"
)

const maxAdminPageSize = 100

type AdminService struct {
	guard       *Guard
	users       domain.UserRepository
	revocations Revocations
	log         *zap.Logger
}

func NewAdminService(guard *Guard, users domain.UserRepository, revocations Revocations, log *zap.Logger) *AdminService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminService{guard: guard, users: users, revocations: revocations, log: log.Named("admin")}
}

func (s *AdminService) ListUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	if f.Limit <= 0 || f.Limit > maxAdminPageSize {
		f.Limit = 20
	}
	return s.users.List(ctx, f)
}

// BanUser 软删用户并吊销其已签发的令牌。吊销失败只告警，软删已生效。
// 操作者须是存储中有效的 admin，已被封禁的 admin 令牌未过期也不行。
func (s *AdminService) BanUser(ctx context.Context, adminID, userID int64) error {
	if adminID == userID {
		return &policy.Error{Field: "id", Reason: "cannot ban yourself"}
	}
	if err := s.guard.RequireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := s.users.SoftDelete(ctx, userID); err != nil {
		return err
	}
	if s.revocations != nil {
		if err := s.revocations.RevokeUser(ctx, userID); err != nil {
			s.log.Warn("revoke tokens failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	s.log.Info("user banned", zap.Int64("user_id", userID), zap.Int64("by", adminID))
	return nil
}
