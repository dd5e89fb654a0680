// Package credential 用 bcrypt 生成与校验密码哈希
package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 12

// bcrypt 只处理前 72 字节
const maxPasswordBytes = 72

var (
	ErrPasswordTooLong = errors.New("credential: password exceeds 72 bytes")
	ErrMalformedHash   = errors.New("credential: malformed hash")
)

type Hasher interface {
	Hash(plaintext string) (string, error)
	// Verify 不匹配返回 (false, nil)；只有存储的哈希本身损坏才返回错误
	Verify(plaintext, hash string) (bool, error)
}

type BcryptHasher struct {
	cost int
}

// NewBcrypt cost 限制在 bcrypt 允许范围内，0 表示 DefaultCost
func NewBcrypt(cost int) *BcryptHasher {
	switch {
	case cost == 0:
		cost = DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int { return h.cost }

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("credential: hash: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
