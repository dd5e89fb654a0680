package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"listify/internal/domain"
	"listify/internal/service"
	mdw "listify/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：/admin/v1，统一要求 admin 角色
func NewAdminEngine(d Deps) *gin.Engine {
	d.defaults()
	r := newEngine("admin", d)

	var reg Registry
	reg.Register(adminUserModule{svc: d.Admin})

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.Auth, domain.RoleAdmin))
	reg.MountAdmin(admin)
	return r
}

type adminUserModule struct{ svc *service.AdminService }

func (m adminUserModule) MountAdmin(admin *gin.RouterGroup) {
	ez := New(admin)

	// --- GET /admin/v1/users  用户列表 ---
	type listQ struct {
		Offset      int    `form:"offset,default=0" binding:"min=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`            // 按 email/nickname 模糊搜
		WithDeleted bool   `form:"with_deleted"` // 是否包含已封禁
	}
	type row struct {
		UserNo    int64     `json:"user_no"`
		Email     string    `json:"email"`
		Nickname  string    `json:"nickname"`
		RoleNo    int       `json:"role_no"`
		Deleted   bool      `json:"deleted"`
		CreatedAt time.Time `json:"created_at"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}
	RegisterAction(ez, Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Bind:   BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, _ int64, in *listQ) (listOut, error) {
			if err := requireRole(c, domain.RoleAdmin); err != nil {
				return listOut{}, err
			}
			us, total, err := m.svc.ListUsers(c.Request.Context(), domain.UserFilter{
				Offset: in.Offset, Limit: in.Limit, Query: in.Q, WithDeleted: in.WithDeleted,
			})
			if err != nil {
				return listOut{}, err
			}
			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{
					UserNo: u.ID, Email: u.Email, Nickname: u.Nickname,
					RoleNo: u.RoleID, Deleted: u.IsDeleted, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	// --- POST /admin/v1/users/:id/ban  封禁（软删 + 吊销令牌） ---
	RegisterAction(ez, Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Auth:   true,
		Handler: func(c *gin.Context, adminID int64, _ *struct{}) (gin.H, error) {
			if err := requireRole(c, domain.RoleAdmin); err != nil {
				return nil, err
			}
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := m.svc.BanUser(c.Request.Context(), adminID, id); err != nil {
				return nil, err
			}
			return gin.H{"user_no": id}, nil
		},
	})
}
