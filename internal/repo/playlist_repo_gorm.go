package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"listify/internal/domain"
)

type PlaylistRepo struct{ db *gorm.DB }

func NewPlaylistRepo(db *gorm.DB) *PlaylistRepo { return &PlaylistRepo{db: db} }

var _ domain.PlaylistRepository = (*PlaylistRepo)(nil)

func (r *PlaylistRepo) Create(ctx context.Context, p *domain.Playlist) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return storeErr("playlist.create", err)
	}
	return nil
}

func (r *PlaylistRepo) Get(ctx context.Context, id int64) (*domain.Playlist, error) {
	var p domain.Playlist
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrResourceNotFound
	}
	if err != nil {
		return nil, storeErr("playlist.get", err)
	}
	return &p, nil
}

// Update 只改标题和内容，归属不可变
func (r *PlaylistRepo) Update(ctx context.Context, id int64, title string, content *string) error {
	err := r.db.WithContext(ctx).Model(&domain.Playlist{}).
		Where("id = ?", id).
		Updates(map[string]any{"title": title, "content": content}).Error
	if err != nil {
		return storeErr("playlist.update", err)
	}
	return nil
}

// Delete 在同一事务里删除歌单及其曲目关联
func (r *PlaylistRepo) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&domain.MusicListEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Playlist{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrResourceNotFound
		}
		return nil
	})
	if err == nil || errors.Is(err, domain.ErrResourceNotFound) {
		return err
	}
	return storeErr("playlist.delete", err)
}

func (r *PlaylistRepo) List(ctx context.Context) ([]domain.Playlist, error) {
	var out []domain.Playlist
	if err := r.db.WithContext(ctx).Order("id desc").Find(&out).Error; err != nil {
		return nil, storeErr("playlist.list", err)
	}
	return out, nil
}

func (r *PlaylistRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Playlist, error) {
	var out []domain.Playlist
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id desc").Find(&out).Error
	if err != nil {
		return nil, storeErr("playlist.list_by_user", err)
	}
	return out, nil
}

// OwnerOf 直接查库，不走缓存
func (r *PlaylistRepo) OwnerOf(ctx context.Context, id int64) (int64, error) {
	var p domain.Playlist
	err := r.db.WithContext(ctx).Select("id", "user_id").Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrResourceNotFound
	}
	if err != nil {
		return 0, storeErr("playlist.owner_of", err)
	}
	return p.UserID, nil
}
