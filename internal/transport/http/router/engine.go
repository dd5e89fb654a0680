package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"listify/internal/service"
	mdw "listify/internal/transport/http/middleware"
	resp "listify/internal/transport/http/response"
)

// Deps 引擎所需的服务，由 cmd 组装
type Deps struct {
	Log       *zap.Logger
	Auth      *service.AuthService
	Playlists *service.PlaylistService
	MusicList *service.MusicListService
	Admin     *service.AdminService

	CORSOrigins    []string
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

func (d *Deps) defaults() {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.MaxConcurrent <= 0 {
		d.MaxConcurrent = 300
	}
	if d.MaxBodyBytes <= 0 {
		d.MaxBodyBytes = 1 << 20
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 10 * time.Second
	}
}

func init() {
	// 标题等字段不能只有空白
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	}
}

func newEngine(name string, d Deps) *gin.Engine {
	r := gin.New()

	corsCfg := cors.DefaultConfig()
	if len(d.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = d.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AddAllowHeaders("Authorization", mdw.KeyRequestID)
	corsCfg.AddExposeHeaders(mdw.KeyRequestID)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(d.Log),
		cors.New(corsCfg),
		mdw.ConcurrencyLimit(d.MaxConcurrent),
		mdw.MaxBodyBytes(d.MaxBodyBytes),
		mdw.Timeout(d.RequestTimeout),
		mdw.Metrics(name),
		mdw.AccessLog(d.Log, "/health", "/metrics"),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) { resp.Abort(c, resp.Error(resp.CodeNotFound, "route not found")) })
	return r
}
