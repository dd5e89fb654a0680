package auth

import (
	"context"
	"strconv"
	"time"

	"listify/internal/core/cache"
)

const revokedKeyPrefix = "revoked:user:"

// RevocationStore 记录用户被封禁的时间点，此前签发的令牌一律失效。
// 令牌最长 24h，key 同样 24h 过期。
type RevocationStore struct {
	c   *cache.Cache
	now func() time.Time
}

func NewRevocationStore(c *cache.Cache) *RevocationStore {
	return &RevocationStore{c: c, now: time.Now}
}

func (s *RevocationStore) Enabled() bool { return s != nil && s.c.Enabled() }

func (s *RevocationStore) RevokeUser(ctx context.Context, userID int64) error {
	if !s.Enabled() {
		return nil
	}
	return s.c.SetInt(ctx, revokedKey(userID), s.now().Unix(), TokenTTL)
}

// IsRevoked 令牌 iat 不晚于封禁时间即视为已吊销
func (s *RevocationStore) IsRevoked(ctx context.Context, c *Claims) (bool, error) {
	if !s.Enabled() || c == nil {
		return false, nil
	}
	at, ok, err := s.c.GetInt(ctx, revokedKey(c.UserID))
	if err != nil || !ok {
		return false, err
	}
	return c.IssuedAt <= at, nil
}

func revokedKey(userID int64) string {
	return revokedKeyPrefix + strconv.FormatInt(userID, 10)
}
