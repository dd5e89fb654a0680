package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"listify/internal/core/config"
	"listify/internal/transport/http/router"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWT:      config.JWT{Secret: "app-test-secret", Issuer: "listify"},
		Password: config.Password{BcryptCost: 4},
		DB: config.DB{
			Driver:       "sqlite",
			DSN:          filepath.Join(t.TempDir(), "app.db"),
			MaxOpenConns: 1,
			AutoMigrate:  true,
			LogLevel:     "silent",
		},
		Cache: config.Cache{PlaylistTTLSec: 60},
	}
}

func TestBuild(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		redis bool
	}{
		{"without redis", false},
		{"with redis", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if tt.redis {
				mr := miniredis.RunT(t)
				cfg.Redis = config.Redis{Enabled: true, Addr: mr.Addr()}
			}

			a, err := Build(context.Background(), cfg, zap.NewNop())
			require.NoError(t, err)
			t.Cleanup(a.Close)
			assert.Equal(t, tt.redis, a.Cache.Enabled())

			for _, h := range []http.Handler{router.NewAPIEngine(a.Deps), router.NewAdminEngine(a.Deps)} {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
				assert.Equal(t, http.StatusOK, w.Code)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := testConfig(t)
		cfg.Redis = config.Redis{Enabled: true, Addr: addr}
		_, err := Build(context.Background(), cfg, zap.NewNop())
		assert.ErrorContains(t, err, "redis ping")
	})

	t.Run("empty secret", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.JWT.Secret = ""
		_, err := Build(context.Background(), cfg, zap.NewNop())
		assert.Error(t, err)
	})
}
