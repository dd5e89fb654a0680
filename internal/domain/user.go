package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = 1 // 默认角色
	RoleAdmin = 2
)

// User 用户记录。不做物理删除，只打 IsDeleted 标记。
// ActiveEmail 在用户有效时等于 Email，软删后置为 NULL；
// 唯一索引建在它上面，保证“未删除用户之间邮箱唯一”。
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"user_no"`
	RoleID       int       `gorm:"not null;default:1" json:"role_no"`
	Email        string    `gorm:"size:191;not null;index" json:"email"`
	ActiveEmail  *string   `gorm:"size:191;uniqueIndex" json:"-"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Nickname     string    `gorm:"size:64;not null" json:"nickname"`
	ProfileURL   string    `gorm:"size:255" json:"profile_url,omitempty"`
	IsDeleted    bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "user" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsAndActive(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f UserFilter) ([]User, int64, error)
	SoftDelete(ctx context.Context, id int64) error
}

type UserFilter struct {
	Offset      int
	Limit       int
	Query       string // email/nickname 模糊搜
	WithDeleted bool
}
