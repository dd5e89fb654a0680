package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache 为 nil 时所有方法直接回源，redis 关闭时无需分支
type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

// Wrap 复用已有的 client（测试里接 miniredis）
func Wrap(rdb *redis.Client) *Cache {
	return &Cache{RDB: rdb}
}

func (c *Cache) Enabled() bool { return c != nil && c.RDB != nil }

func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.RDB.Close()
}

func genKey(key string) string { return key + ":gen" }

// 代数键只用来判断回源期间是否被失效过
const genTTL = 24 * time.Hour

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if !c.Enabled() {
		return load(ctx)
	}
	// 先读缓存
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源；回源不跟随任一调用方取消
	ch := c.sf.DoChan(key, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		gen, _ := c.gen(lctx, key)
		b, e := load(lctx)
		if e != nil {
			return nil, e
		}
		c.setIfGen(lctx, key, gen, b, ttl)
		return b, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]byte), nil
	}
}

func (c *Cache) gen(ctx context.Context, key string) (int64, error) {
	n, err := c.RDB.Get(ctx, genKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// setIfGen 回源期间 key 被失效过（代数变了）就放弃写入，避免旧值盖回去
func (c *Cache) setIfGen(ctx context.Context, key string, gen int64, b []byte, ttl time.Duration) bool {
	err := c.RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey(key)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, b, ttl)
			return nil
		})
		return err
	}, genKey(key))
	return err == nil
}

var errStale = errors.New("cache: stale load")

// Invalidate 删除 key 并推进代数，未命中不算错误
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, keys...)
		for _, k := range keys {
			p.Incr(ctx, genKey(k))
			p.Expire(ctx, genKey(k), genTTL)
		}
		return nil
	})
	return err
}

func (c *Cache) SetInt(ctx context.Context, key string, v int64, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	return c.RDB.Set(ctx, key, v, ttl).Err()
}

// GetInt 返回 (值, 是否存在, 错误)
func (c *Cache) GetInt(ctx context.Context, key string) (int64, bool, error) {
	if !c.Enabled() {
		return 0, false, nil
	}
	v, err := c.RDB.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
