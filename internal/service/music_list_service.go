package service

import (
	"context"

	"go.uber.org/zap"

	"listify/internal/domain"
	"listify/internal/policy"
)

type MusicListService struct {
	guard  *Guard
	owners OwnerLookup
	music  domain.MusicListRepository
	log    *zap.Logger
}

func NewMusicListService(guard *Guard, owners OwnerLookup, music domain.MusicListRepository, log *zap.Logger) *MusicListService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MusicListService{guard: guard, owners: owners, music: music, log: log.Named("music_list")}
}

func checkMusicID(id int64) error {
	if id <= 0 {
		return &policy.Error{Field: "music_id", Reason: "must be a positive integer"}
	}
	return nil
}

func (s *MusicListService) Add(ctx context.Context, actorID, playlistID, musicID int64) error {
	if err := s.guard.AuthorizeOwnedMutation(ctx, actorID, playlistID); err != nil {
		return err
	}
	if err := checkMusicID(musicID); err != nil {
		return err
	}
	return s.music.Add(ctx, playlistID, musicID)
}

func (s *MusicListService) Remove(ctx context.Context, actorID, playlistID, musicID int64) error {
	if err := s.guard.AuthorizeOwnedMutation(ctx, actorID, playlistID); err != nil {
		return err
	}
	return s.music.Remove(ctx, playlistID, musicID)
}

// Clear 返回删除的曲目数
func (s *MusicListService) Clear(ctx context.Context, actorID, playlistID int64) (int64, error) {
	if err := s.guard.AuthorizeOwnedMutation(ctx, actorID, playlistID); err != nil {
		return 0, err
	}
	n, err := s.music.Clear(ctx, playlistID)
	if err != nil {
		return 0, err
	}
	s.log.Info("playlist cleared", zap.Int64("playlist_id", playlistID), zap.Int64("removed", n))
	return n, nil
}

// ListByPlaylist 歌单不存在时返回 ErrResourceNotFound，而不是空列表
func (s *MusicListService) ListByPlaylist(ctx context.Context, playlistID int64) ([]domain.MusicListEntry, error) {
	if _, err := s.owners.OwnerOf(ctx, playlistID); err != nil {
		return nil, err
	}
	return s.music.ListByPlaylist(ctx, playlistID)
}

func (s *MusicListService) PlaylistsByMusic(ctx context.Context, musicID int64) ([]domain.Playlist, error) {
	if err := checkMusicID(musicID); err != nil {
		return nil, err
	}
	return s.music.PlaylistsByMusic(ctx, musicID)
}
