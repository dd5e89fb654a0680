package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"listify/internal/core/auth"
	"listify/internal/core/cache"
	"listify/internal/core/config"
	"listify/internal/core/credential"
	"listify/internal/core/database"
	"listify/internal/repo"
	"listify/internal/service"
	"listify/internal/transport/http/router"
)

// App 两个入口（api/admin）共用的依赖组装
type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Cache *cache.Cache
	Deps  router.Deps
}

// Build 打开 DB（可选迁移）、连接 Redis（可选），组装服务
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	a := &App{Cfg: cfg, Log: log, DB: db}

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	// Redis 可选：关闭时缓存与吊销表都退化为直通
	if cfg.Redis.Enabled {
		a.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := a.Cache.Ping(pctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	jwter, err := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		a.Close()
		return nil, err
	}
	hasher := credential.NewBcrypt(cfg.Password.BcryptCost)
	revoked := auth.NewRevocationStore(a.Cache)

	users := repo.NewUserRepo(db)
	playlists := repo.NewPlaylistRepo(db)
	music := repo.NewMusicListRepo(db)

	guard := service.NewGuard(users, playlists, hasher, jwter)
	a.Deps = router.Deps{
		Log:       log,
		Auth:      service.NewAuthService(guard, users, hasher, jwter, revoked, log),
		Playlists: service.NewPlaylistService(guard, playlists, a.Cache, time.Duration(cfg.Cache.PlaylistTTLSec)*time.Second, log),
		MusicList: service.NewMusicListService(guard, playlists, music, log),
		Admin:     service.NewAdminService(guard, users, revoked, log),
	}
	return a, nil
}

func (a *App) Close() {
	if err := a.Cache.Close(); err != nil {
		a.Log.Warn("redis close", zap.Error(err))
	}
	if err := database.Close(a.DB); err != nil {
		a.Log.Warn("db close", zap.Error(err))
	}
}
