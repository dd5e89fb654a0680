package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"listify/internal/core/auth"
	"listify/internal/domain"
	mdw "listify/internal/transport/http/middleware"
	resp "listify/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式。路径参数不参与绑定，用 paramID 单独取
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = ""      // 不绑定
)

// 传输层自身的错误（绑定失败等），业务错误走 resp.FromError
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string, err error) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg, Err: err} }
func TooLarge() error                        { return &AErr{Code: resp.CodeTooLarge, Msg: "request body too large"} }

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method string   // "GET" | "POST" | "PUT" | "DELETE"
	Path   string   // 例："/auth/login"、"/playlists/:id/music"
	Bind   Binder   // 绑定方式
	Auth   bool     // 是否要求已通过 AuthJWT
	// Handler 的 actorID 只来自已验证令牌；Auth=false 时为 0
	Handler func(c *gin.Context, actorID int64, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 身份
		var actorID int64
		if a.Auth {
			id, err := auth.ActorID(c.Request.Context())
			if err != nil {
				resp.Fail(c, err)
				return
			}
			actorID = id
		}

		// 2) 绑定入参
		var in I
		if err := bind(c, a.Bind, &in); err != nil {
			writeErr(c, err)
			return
		}

		// 3) 执行
		out, err := a.Handler(c, actorID, &in)
		if err != nil {
			writeErr(c, err)
			return
		}
		resp.JSON(c, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func bind(c *gin.Context, b Binder, in any) error {
	var err error
	switch b {
	case BindJSON:
		err = c.ShouldBindJSON(in)
	case BindQuery:
		err = c.ShouldBindQuery(in)
	}
	switch {
	case err == nil:
		return nil
	case mdw.IsBodyTooLarge(err):
		return TooLarge()
	default:
		return BadRequest(err.Error(), err)
	}
}

// writeErr 统一错误映射
func writeErr(c *gin.Context, err error) {
	var ae *AErr
	if errors.As(err, &ae) {
		_ = c.Error(err)
		resp.Abort(c, resp.Error(ae.Code, ae.Error()))
		return
	}
	resp.Fail(c, err)
}

// paramID 取正整数路径参数
func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, BadRequest(name+" must be a positive integer", err)
	}
	return id, nil
}

// requireRole 管理端 handler 的二次确认
func requireRole(c *gin.Context, role int) error {
	claims, ok := auth.ClaimsFrom(c.Request.Context())
	if !ok {
		return domain.ErrMissingToken
	}
	if claims.RoleID != role {
		return domain.ErrForbiddenRole
	}
	return nil
}
