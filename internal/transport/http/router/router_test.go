package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"listify/internal/core/auth"
	"listify/internal/core/cache"
	"listify/internal/core/credential"
	"listify/internal/core/database"
	"listify/internal/domain"
	"listify/internal/repo"
	"listify/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

type env struct {
	db    *gorm.DB
	api   *gin.Engine
	admin *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "router.db"),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	c := cache.Wrap(rdb)

	jwter, err := auth.NewJWTer("router-test-secret", "listify")
	require.NoError(t, err)
	hasher := credential.NewBcrypt(4)
	revoked := auth.NewRevocationStore(c)
	log := zap.NewNop()

	users := repo.NewUserRepo(db)
	playlists := repo.NewPlaylistRepo(db)
	music := repo.NewMusicListRepo(db)
	guard := service.NewGuard(users, playlists, hasher, jwter)

	d := Deps{
		Log:       log,
		Auth:      service.NewAuthService(guard, users, hasher, jwter, revoked, log),
		Playlists: service.NewPlaylistService(guard, playlists, c, time.Minute, log),
		MusicList: service.NewMusicListService(guard, playlists, music, log),
		Admin:     service.NewAdminService(guard, users, revoked, log),
	}
	return &env{db: db, api: NewAPIEngine(d), admin: NewAdminEngine(d)}
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return w.Code, e
}

func (e *env) signup(t *testing.T, email string) (int64, string) {
	t.Helper()
	status, res := do(t, e.api, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": "Abc123!", "nickname": "nick",
	})
	require.Equal(t, http.StatusOK, status, res.Msg)
	var u struct {
		UserNo int64 `json:"user_no"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &u))
	return u.UserNo, e.login(t, email)
}

func (e *env) login(t *testing.T, email string) string {
	t.Helper()
	status, res := do(t, e.api, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": email, "password": "Abc123!",
	})
	require.Equal(t, http.StatusOK, status, res.Msg)
	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &out))
	require.Equal(t, "Bearer", out.TokenType)
	return out.AccessToken
}

func (e *env) createPlaylist(t *testing.T, token, title string) int64 {
	t.Helper()
	status, res := do(t, e.api, http.MethodPost, "/api/v1/playlists", token, gin.H{"title": title})
	require.Equal(t, http.StatusOK, status, res.Msg)
	var p domain.Playlist
	require.NoError(t, json.Unmarshal(res.Data, &p))
	return p.ID
}

func TestHealthAndNoRoute(t *testing.T) {
	e := newEnv(t)

	w := httptest.NewRecorder()
	e.api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	status, res := do(t, e.api, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "route not found", res.Msg)

	w = httptest.NewRecorder()
	e.admin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRoutes(t *testing.T) {
	e := newEnv(t)
	id, token := e.signup(t, "a@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"duplicate email", http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "a@example.com", "password": "Abc123!", "nickname": "x"}, http.StatusConflict},
		{"weak password", http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "b@example.com", "password": "abc", "nickname": "x"}, http.StatusBadRequest},
		{"bad email", http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "nope", "password": "Abc123!", "nickname": "x"}, http.StatusBadRequest},
		{"missing field", http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "c@example.com"}, http.StatusBadRequest},
		{"wrong password", http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "a@example.com", "password": "Wrong123!"}, http.StatusUnauthorized},
		{"unknown user", http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "z@example.com", "password": "Abc123!"}, http.StatusUnauthorized},
		{"verify ok", http.MethodGet, "/api/v1/auth/verify", token, nil, http.StatusOK},
		{"verify missing", http.MethodGet, "/api/v1/auth/verify", "", nil, http.StatusUnauthorized},
		{"verify garbage", http.MethodGet, "/api/v1/auth/verify", "a.b.c", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := do(t, e.api, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, status, res.Msg)
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.status, res.Code)
			}
		})
	}

	t.Run("login failures share one message", func(t *testing.T) {
		_, wrong := do(t, e.api, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "a@example.com", "password": "Wrong123!"})
		_, unknown := do(t, e.api, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "z@example.com", "password": "Abc123!"})
		assert.Equal(t, wrong.Msg, unknown.Msg)
	})

	t.Run("verify returns subject", func(t *testing.T) {
		_, res := do(t, e.api, http.MethodGet, "/api/v1/auth/verify", token, nil)
		var out struct {
			UserNo int64 `json:"user_no"`
			RoleNo int   `json:"role_no"`
		}
		require.NoError(t, json.Unmarshal(res.Data, &out))
		assert.Equal(t, id, out.UserNo)
		assert.Equal(t, domain.RoleUser, out.RoleNo)
	})
}

func TestPlaylistRoutes(t *testing.T) {
	e := newEnv(t)
	ownerID, owner := e.signup(t, "owner@example.com")
	_, other := e.signup(t, "other@example.com")
	pid := e.createPlaylist(t, owner, "  Road Trip  ")
	path := "/api/v1/playlists/" + strconv.FormatInt(pid, 10)

	status, res := do(t, e.api, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, status)
	var p domain.Playlist
	require.NoError(t, json.Unmarshal(res.Data, &p))
	assert.Equal(t, "Road Trip", p.Title)
	assert.Equal(t, ownerID, p.UserID)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"create without token", http.MethodPost, "/api/v1/playlists", "", gin.H{"title": "x"}, http.StatusUnauthorized},
		{"create blank title", http.MethodPost, "/api/v1/playlists", owner, gin.H{"title": "   "}, http.StatusBadRequest},
		{"update by other", http.MethodPut, path, other, gin.H{"title": "mine now"}, http.StatusForbidden},
		{"delete by other", http.MethodDelete, path, other, nil, http.StatusForbidden},
		{"update missing", http.MethodPut, "/api/v1/playlists/9999", owner, gin.H{"title": "x"}, http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/v1/playlists/abc", "", nil, http.StatusBadRequest},
		{"update by owner", http.MethodPut, path, owner, gin.H{"title": "Renamed"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := do(t, e.api, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, status, res.Msg)
		})
	}

	_, res = do(t, e.api, http.MethodGet, path, "", nil)
	require.NoError(t, json.Unmarshal(res.Data, &p))
	assert.Equal(t, "Renamed", p.Title)

	_, res = do(t, e.api, http.MethodGet, "/api/v1/users/"+strconv.FormatInt(ownerID, 10)+"/playlists", "", nil)
	var list []domain.Playlist
	require.NoError(t, json.Unmarshal(res.Data, &list))
	assert.Len(t, list, 1)

	status, _ = do(t, e.api, http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = do(t, e.api, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	_, res = do(t, e.api, http.MethodGet, "/api/v1/playlists", "", nil)
	assert.JSONEq(t, `[]`, string(res.Data))
}

func TestMusicRoutes(t *testing.T) {
	e := newEnv(t)
	_, owner := e.signup(t, "owner@example.com")
	_, other := e.signup(t, "other@example.com")
	pid := e.createPlaylist(t, owner, "Jazz")
	base := "/api/v1/playlists/" + strconv.FormatInt(pid, 10) + "/music"

	status, _ := do(t, e.api, http.MethodPost, base, owner, gin.H{"music_no": 42})
	require.Equal(t, http.StatusOK, status)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"duplicate", http.MethodPost, base, owner, gin.H{"music_no": 42}, http.StatusConflict},
		{"other user", http.MethodPost, base, other, gin.H{"music_no": 7}, http.StatusForbidden},
		{"invalid music", http.MethodPost, base, owner, gin.H{"music_no": 0}, http.StatusBadRequest},
		{"remove missing", http.MethodDelete, base + "/7", owner, nil, http.StatusBadRequest},
		{"list missing playlist", http.MethodGet, "/api/v1/playlists/9999/music", "", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := do(t, e.api, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, status, res.Msg)
		})
	}

	_, res := do(t, e.api, http.MethodGet, "/api/v1/music/42/playlists", "", nil)
	var lists []domain.Playlist
	require.NoError(t, json.Unmarshal(res.Data, &lists))
	require.Len(t, lists, 1)
	assert.Equal(t, pid, lists[0].ID)

	status, _ = do(t, e.api, http.MethodDelete, base+"/42", owner, nil)
	assert.Equal(t, http.StatusOK, status)

	do(t, e.api, http.MethodPost, base, owner, gin.H{"music_no": 1})
	do(t, e.api, http.MethodPost, base, owner, gin.H{"music_no": 2})
	status, res = do(t, e.api, http.MethodDelete, base, owner, nil)
	require.Equal(t, http.StatusOK, status)
	var cleared struct {
		Removed int64 `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &cleared))
	assert.Equal(t, int64(2), cleared.Removed)

	_, res = do(t, e.api, http.MethodGet, base, "", nil)
	assert.JSONEq(t, `{"playlist_no":`+strconv.FormatInt(pid, 10)+`,"items":[]}`, string(res.Data))
}

func TestAdminRoutes(t *testing.T) {
	e := newEnv(t)
	adminID, _ := e.signup(t, "admin@example.com")
	require.NoError(t, e.db.Model(&domain.User{}).Where("id = ?", adminID).Update("role_id", domain.RoleAdmin).Error)
	adminToken := e.login(t, "admin@example.com")

	userID, userToken := e.signup(t, "user@example.com")
	pid := e.createPlaylist(t, userToken, "Before ban")

	t.Run("user token rejected", func(t *testing.T) {
		status, _ := do(t, e.admin, http.MethodGet, "/admin/v1/users", userToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("list users", func(t *testing.T) {
		status, res := do(t, e.admin, http.MethodGet, "/admin/v1/users?q=user@&limit=500", adminToken, nil)
		require.Equal(t, http.StatusOK, status, res.Msg)
		var out struct {
			Total int64 `json:"total"`
			Items []struct {
				UserNo int64 `json:"user_no"`
			} `json:"items"`
		}
		require.NoError(t, json.Unmarshal(res.Data, &out))
		assert.Equal(t, int64(1), out.Total)
		require.Len(t, out.Items, 1)
		assert.Equal(t, userID, out.Items[0].UserNo)
	})

	t.Run("ban self rejected", func(t *testing.T) {
		status, _ := do(t, e.admin, http.MethodPost, "/admin/v1/users/"+strconv.FormatInt(adminID, 10)+"/ban", adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("ban revokes tokens", func(t *testing.T) {
		status, res := do(t, e.admin, http.MethodPost, "/admin/v1/users/"+strconv.FormatInt(userID, 10)+"/ban", adminToken, nil)
		require.Equal(t, http.StatusOK, status, res.Msg)

		status, _ = do(t, e.api, http.MethodPut, "/api/v1/playlists/"+strconv.FormatInt(pid, 10), userToken, gin.H{"title": "after"})
		assert.Equal(t, http.StatusUnauthorized, status)

		status, _ = do(t, e.api, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "user@example.com", "password": "Abc123!"})
		assert.Equal(t, http.StatusUnauthorized, status)

		status, _ = do(t, e.admin, http.MethodPost, "/admin/v1/users/"+strconv.FormatInt(userID, 10)+"/ban", adminToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}
