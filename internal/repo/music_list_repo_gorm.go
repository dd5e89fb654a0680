package repo

import (
	"context"

	"gorm.io/gorm"

	"listify/internal/domain"
)

type MusicListRepo struct{ db *gorm.DB }

func NewMusicListRepo(db *gorm.DB) *MusicListRepo { return &MusicListRepo{db: db} }

var _ domain.MusicListRepository = (*MusicListRepo)(nil)

func (r *MusicListRepo) Add(ctx context.Context, playlistID, musicID int64) error {
	e := &domain.MusicListEntry{PlaylistID: playlistID, MusicID: musicID}
	err := r.db.WithContext(ctx).Create(e).Error
	switch {
	case err == nil:
		return nil
	case isDupKey(err):
		return domain.ErrAlreadyInPlaylist
	default:
		return storeErr("music_list.add", err)
	}
}

func (r *MusicListRepo) Remove(ctx context.Context, playlistID, musicID int64) error {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND music_id = ?", playlistID, musicID).
		Delete(&domain.MusicListEntry{})
	if res.Error != nil {
		return storeErr("music_list.remove", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotInPlaylist
	}
	return nil
}

// Clear 返回删除条数，空歌单返回 0
func (r *MusicListRepo) Clear(ctx context.Context, playlistID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("playlist_id = ?", playlistID).Delete(&domain.MusicListEntry{})
	if res.Error != nil {
		return 0, storeErr("music_list.clear", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *MusicListRepo) ListByPlaylist(ctx context.Context, playlistID int64) ([]domain.MusicListEntry, error) {
	var out []domain.MusicListEntry
	err := r.db.WithContext(ctx).
		Where("playlist_id = ?", playlistID).
		Order("created_at asc, music_id asc").
		Find(&out).Error
	if err != nil {
		return nil, storeErr("music_list.list", err)
	}
	return out, nil
}

func (r *MusicListRepo) PlaylistsByMusic(ctx context.Context, musicID int64) ([]domain.Playlist, error) {
	var out []domain.Playlist
	err := r.db.WithContext(ctx).Model(&domain.Playlist{}).
		Joins("JOIN music_list ON music_list.playlist_id = playlist.id").
		Where("music_list.music_id = ?", musicID).
		Order("playlist.id desc").
		Find(&out).Error
	if err != nil {
		return nil, storeErr("music_list.playlists_by_music", err)
	}
	return out, nil
}

// mysql 默认 *_ci 排序规则下 email 比较不区分大小写，建表时改成二进制排序
func tableOptions(dialect string) string {
	if dialect == "mysql" {
		return "DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"
	}
	return ""
}

// AutoMigrate 建表，本地与测试环境用
func AutoMigrate(db *gorm.DB) error {
	if opt := tableOptions(db.Dialector.Name()); opt != "" {
		db = db.Set("gorm:table_options", opt)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Playlist{}, &domain.MusicListEntry{}); err != nil {
		return storeErr("migrate", err)
	}
	return nil
}
