package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"listify/internal/core/auth"
	"listify/internal/domain"
)

// MockUserRepository domain.UserRepository 的 mock
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsAndActive(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOwnerLookup OwnerLookup 的 mock
type MockOwnerLookup struct {
	mock.Mock
}

func (m *MockOwnerLookup) OwnerOf(ctx context.Context, playlistID int64) (int64, error) {
	args := m.Called(ctx, playlistID)
	return args.Get(0).(int64), args.Error(1)
}

// MockHasher credential.Hasher 的 mock
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(plaintext, hash string) (bool, error) {
	args := m.Called(plaintext, hash)
	return args.Bool(0), args.Error(1)
}

// MockTokens TokenIssuer 与 TokenVerifier 的 mock
type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) Issue(userID int64, roleID int) (string, *auth.Claims, error) {
	args := m.Called(userID, roleID)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*auth.Claims), args.Error(2)
}

func (m *MockTokens) Verify(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

// MockRevocations Revocations 的 mock
type MockRevocations struct {
	mock.Mock
}

func (m *MockRevocations) RevokeUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRevocations) IsRevoked(ctx context.Context, c *auth.Claims) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}
