package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"listify/internal/core/cache"
	"listify/internal/domain"
	"listify/internal/policy"
)

const defaultPlaylistTTL = time.Minute

type PlaylistService struct {
	guard     *Guard
	playlists domain.PlaylistRepository
	cache     *cache.Cache
	ttl       time.Duration
	log       *zap.Logger
}

// NewPlaylistService c 为 nil 时不缓存
func NewPlaylistService(guard *Guard, playlists domain.PlaylistRepository, c *cache.Cache, ttl time.Duration, log *zap.Logger) *PlaylistService {
	if ttl <= 0 {
		ttl = defaultPlaylistTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PlaylistService{guard: guard, playlists: playlists, cache: c, ttl: ttl, log: log.Named("playlist")}
}

func playlistKey(id int64) string { return "playlist:" + strconv.FormatInt(id, 10) }

func (s *PlaylistService) Create(ctx context.Context, actorID int64, title string, content *string) (*domain.Playlist, error) {
	if err := s.guard.RequireActiveActor(ctx, actorID); err != nil {
		return nil, err
	}
	if err := policy.ValidateTitle(title); err != nil {
		return nil, err
	}
	p := &domain.Playlist{UserID: actorID, Title: strings.TrimSpace(title), Content: content}
	if err := s.playlists.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("playlist created", zap.Int64("playlist_id", p.ID), zap.Int64("user_id", actorID))
	return p, nil
}

func (s *PlaylistService) Update(ctx context.Context, actorID, id int64, title string, content *string) (*domain.Playlist, error) {
	if err := s.guard.AuthorizeOwnedMutation(ctx, actorID, id); err != nil {
		return nil, err
	}
	if err := policy.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := s.playlists.Update(ctx, id, strings.TrimSpace(title), content); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.playlists.Get(ctx, id)
}

func (s *PlaylistService) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.guard.AuthorizeOwnedMutation(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info("playlist deleted", zap.Int64("playlist_id", id), zap.Int64("user_id", actorID))
	return nil
}

// Get 读缓存；归属判断不走这里
func (s *PlaylistService) Get(ctx context.Context, id int64) (*domain.Playlist, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, playlistKey(id), s.ttl, func(ctx context.Context) (*domain.Playlist, error) {
		return s.playlists.Get(ctx, id)
	})
}

func (s *PlaylistService) List(ctx context.Context) ([]domain.Playlist, error) {
	return s.playlists.List(ctx)
}

func (s *PlaylistService) ListByUser(ctx context.Context, userID int64) ([]domain.Playlist, error) {
	return s.playlists.ListByUser(ctx, userID)
}

func (s *PlaylistService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, playlistKey(id)); err != nil {
		s.log.Warn("cache invalidate failed", zap.Int64("playlist_id", id), zap.Error(err))
	}
}
