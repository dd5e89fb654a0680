package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"listify/internal/domain"
	"listify/internal/service"
	mdw "listify/internal/transport/http/middleware"
)

// NewAPIEngine 用户端：/api/v1
func NewAPIEngine(d Deps) *gin.Engine {
	d.defaults()
	r := newEngine("api", d)

	authn := mdw.AuthJWT(d.Auth, 0)
	var reg Registry
	reg.Register(
		authModule{svc: d.Auth},
		playlistModule{svc: d.Playlists, authn: authn},
		musicModule{svc: d.MusicList, authn: authn},
	)

	api := r.Group("/api/v1")
	reg.MountAPI(api)
	return r
}

/* ---------- /auth ---------- */

type authModule struct{ svc *service.AuthService }

func (authModule) Priority() int { return 10 }

func (m authModule) MountAPI(api *gin.RouterGroup) {
	ez := New(api.Group("/auth"))

	type registerIn struct {
		Email    string `json:"email"    binding:"required"`
		Password string `json:"password" binding:"required"`
		Nickname string `json:"nickname" binding:"required"`
	}
	type registerOut struct {
		UserNo   int64  `json:"user_no"`
		Email    string `json:"email"`
		Nickname string `json:"nickname"`
	}
	RegisterAction(ez, Action[registerIn, registerOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Bind:   BindJSON,
		Handler: func(c *gin.Context, _ int64, in *registerIn) (registerOut, error) {
			u, err := m.svc.Register(c.Request.Context(), service.RegisterInput{
				Email: in.Email, Password: in.Password, Nickname: in.Nickname,
			})
			if err != nil {
				return registerOut{}, err
			}
			return registerOut{UserNo: u.ID, Email: u.Email, Nickname: u.Nickname}, nil
		},
	})

	type loginIn struct {
		Email    string `json:"email"    binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		AccessToken string    `json:"access_token"`
		TokenType   string    `json:"token_type"`
		ExpiresAt   time.Time `json:"expires_at"`
	}
	RegisterAction(ez, Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Bind:   BindJSON,
		Handler: func(c *gin.Context, _ int64, in *loginIn) (loginOut, error) {
			res, err := m.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			return loginOut{AccessToken: res.AccessToken, TokenType: res.TokenType, ExpiresAt: res.Claims.Expires()}, nil
		},
	})

	type verifyOut struct {
		UserNo    int64     `json:"user_no"`
		RoleNo    int       `json:"role_no"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	RegisterAction(ez, Action[struct{}, verifyOut]{
		Method: http.MethodGet,
		Path:   "/verify",
		Handler: func(c *gin.Context, _ int64, _ *struct{}) (verifyOut, error) {
			claims, err := m.svc.VerifyToken(c.Request.Context(), c.GetHeader("Authorization"))
			if err != nil {
				return verifyOut{}, err
			}
			return verifyOut{UserNo: claims.UserID, RoleNo: claims.RoleID, ExpiresAt: claims.Expires()}, nil
		},
	})
}

/* ---------- /playlists ---------- */

type playlistModule struct {
	svc   *service.PlaylistService
	authn gin.HandlerFunc
}

func (m playlistModule) MountAPI(api *gin.RouterGroup) {
	public := New(api)
	authed := New(api.Group("", m.authn))

	RegisterAction(public, Action[struct{}, []domain.Playlist]{
		Method: http.MethodGet,
		Path:   "/playlists",
		Handler: func(c *gin.Context, _ int64, _ *struct{}) ([]domain.Playlist, error) {
			return nonNil[domain.Playlist](m.svc.List(c.Request.Context()))
		},
	})
	RegisterAction(public, Action[struct{}, *domain.Playlist]{
		Method: http.MethodGet,
		Path:   "/playlists/:id",
		Handler: func(c *gin.Context, _ int64, _ *struct{}) (*domain.Playlist, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Get(c.Request.Context(), id)
		},
	})
	RegisterAction(public, Action[struct{}, []domain.Playlist]{
		Method: http.MethodGet,
		Path:   "/users/:id/playlists",
		Handler: func(c *gin.Context, _ int64, _ *struct{}) ([]domain.Playlist, error) {
			userID, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			return nonNil[domain.Playlist](m.svc.ListByUser(c.Request.Context(), userID))
		},
	})

	type playlistIn struct {
		Title   string  `json:"title"   binding:"required,notblank,max=255"`
		Content *string `json:"content"`
	}
	RegisterAction(authed, Action[playlistIn, *domain.Playlist]{
		Method: http.MethodPost,
		Path:   "/playlists",
		Bind:   BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, actorID int64, in *playlistIn) (*domain.Playlist, error) {
			return m.svc.Create(c.Request.Context(), actorID, in.Title, in.Content)
		},
	})
	RegisterAction(authed, Action[playlistIn, *domain.Playlist]{
		Method: http.MethodPut,
		Path:   "/playlists/:id",
		Bind:   BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, actorID int64, in *playlistIn) (*domain.Playlist, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Update(c.Request.Context(), actorID, id, in.Title, in.Content)
		},
	})
	RegisterAction(authed, Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/playlists/:id",
		Auth:   true,
		Handler: func(c *gin.Context, actorID int64, _ *struct{}) (gin.H, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := m.svc.Delete(c.Request.Context(), actorID, id); err != nil {
				return nil, err
			}
			return gin.H{"playlist_no": id}, nil
		},
	})
}

/* ---------- 歌单曲目 ---------- */

type musicModule struct {
	svc   *service.MusicListService
	authn gin.HandlerFunc
}

func (m musicModule) MountAPI(api *gin.RouterGroup) {
	public := New(api)
	authed := New(api.Group("", m.authn))

	type musicListOut struct {
		PlaylistNo int64                   `json:"playlist_no"`
		Items      []domain.MusicListEntry `json:"items"`
	}
	RegisterAction(public, Action[struct{}, musicListOut]{
		Method: http.MethodGet,
		Path:   "/playlists/:id/music",
		Handler: func(c *gin.Context, _ int64, _ *struct{}) (musicListOut, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return musicListOut{}, err
			}
			items, err := nonNil[domain.MusicListEntry](m.svc.ListByPlaylist(c.Request.Context(), id))
			if err != nil {
				return musicListOut{}, err
			}
			return musicListOut{PlaylistNo: id, Items: items}, nil
		},
	})
	RegisterAction(public, Action[struct{}, []domain.Playlist]{
		Method: http.MethodGet,
		Path:   "/music/:id/playlists",
		Handler: func(c *gin.Context, _ int64, _ *struct{}) ([]domain.Playlist, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			return nonNil[domain.Playlist](m.svc.PlaylistsByMusic(c.Request.Context(), id))
		},
	})

	type addIn struct {
		MusicNo int64 `json:"music_no" binding:"required,min=1"`
	}
	RegisterAction(authed, Action[addIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/playlists/:id/music",
		Bind:   BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, actorID int64, in *addIn) (gin.H, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := m.svc.Add(c.Request.Context(), actorID, id, in.MusicNo); err != nil {
				return nil, err
			}
			return gin.H{"playlist_no": id, "music_no": in.MusicNo}, nil
		},
	})
	RegisterAction(authed, Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/playlists/:id/music/:music_id",
		Auth:   true,
		Handler: func(c *gin.Context, actorID int64, _ *struct{}) (gin.H, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			musicID, err := paramID(c, "music_id")
			if err != nil {
				return nil, err
			}
			if err := m.svc.Remove(c.Request.Context(), actorID, id, musicID); err != nil {
				return nil, err
			}
			return gin.H{"playlist_no": id, "music_no": musicID}, nil
		},
	})
	RegisterAction(authed, Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/playlists/:id/music",
		Auth:   true,
		Handler: func(c *gin.Context, actorID int64, _ *struct{}) (gin.H, error) {
			id, err := paramID(c, "id")
			if err != nil {
				return nil, err
			}
			n, err := m.svc.Clear(c.Request.Context(), actorID, id)
			if err != nil {
				return nil, err
			}
			return gin.H{"playlist_no": id, "removed": n}, nil
		},
	})
}

// nonNil 空结果返回 []，不返回 null
func nonNil[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
