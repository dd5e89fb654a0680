package domain

import (
	"context"
	"time"
)

// Playlist 归属于唯一的 UserID，创建后不可变更
type Playlist struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"playlist_no"`
	UserID    int64     `gorm:"not null;index" json:"user_no"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   *string   `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Playlist) TableName() string { return "playlist" }

// MusicListEntry 歌单与曲目的关联；MusicID 为外部曲目 ID，不校验存在性
type MusicListEntry struct {
	PlaylistID int64     `gorm:"primaryKey;autoIncrement:false" json:"playlist_no"`
	MusicID    int64     `gorm:"primaryKey;autoIncrement:false;index" json:"music_no"`
	CreatedAt  time.Time `json:"created_at"`
}

func (MusicListEntry) TableName() string { return "music_list" }

type PlaylistRepository interface {
	Create(ctx context.Context, p *Playlist) error
	Get(ctx context.Context, id int64) (*Playlist, error)
	Update(ctx context.Context, id int64, title string, content *string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Playlist, error)
	ListByUser(ctx context.Context, userID int64) ([]Playlist, error)
	OwnerOf(ctx context.Context, id int64) (int64, error)
}

type MusicListRepository interface {
	Add(ctx context.Context, playlistID, musicID int64) error
	Remove(ctx context.Context, playlistID, musicID int64) error
	Clear(ctx context.Context, playlistID int64) (int64, error)
	ListByPlaylist(ctx context.Context, playlistID int64) ([]MusicListEntry, error)
	PlaylistsByMusic(ctx context.Context, musicID int64) ([]Playlist, error)
}
