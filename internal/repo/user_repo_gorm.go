package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"listify/internal/domain"
)

const defaultPageSize = 20

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

// Create 插入新用户。邮箱唯一性由 active_email 唯一索引兜底，
// 并发注册时只有一方成功，另一方拿到 ErrDuplicateEmail。
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.RoleID == 0 {
		u.RoleID = domain.RoleUser
	}
	email := u.Email
	u.ActiveEmail = &email
	u.IsDeleted = false

	err := r.db.WithContext(ctx).Create(u).Error
	switch {
	case err == nil:
		return nil
	case isDupKey(err):
		return domain.ErrDuplicateEmail
	default:
		return storeErr("user.create", err)
	}
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("user.find_by_id", err)
	}
	return &u, nil
}

// FindByEmail 按原样比较邮箱，与唯一索引一致；已软删用户不可见
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("user.find_by_email", err)
	}
	return &u, nil
}

func (r *UserRepo) ExistsAndActive(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Count(&n).Error
	if err != nil {
		return false, storeErr("user.exists_and_active", err)
	}
	return n > 0, nil
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if !f.WithDeleted {
		tx = tx.Where("is_deleted = ?", false)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("email LIKE ? OR nickname LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, storeErr("user.count", err)
	}
	var users []domain.User
	if err := tx.Offset(f.Offset).Limit(f.Limit).Order("id desc").Find(&users).Error; err != nil {
		return nil, 0, storeErr("user.list", err)
	}
	return users, total, nil
}

// SoftDelete 只打标记并释放 active_email，邮箱可被重新注册
func (r *UserRepo) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "active_email": nil})
	if res.Error != nil {
		return storeErr("user.soft_delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
