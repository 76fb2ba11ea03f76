package domain

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// MaxUploadSize determines the default maximum filesize of an uploaded media file.
const MaxUploadSize int64 = 5 << 20 // 5 Megabyte

// Media represents a file uploaded by a user. Media are uploaded on their own and
// attached to a Tweet later on, when the Tweet is created. Until then TweetID is nil.
// Once attached, a Media is read-only content of that Tweet. It outlives the Tweet:
// deleting the Tweet only sets TweetID back to nil.
// Filename is the unique name under which the file is kept in the MediaStore,
// Digest the hex encoded blake2b-256 hash of its bytes.
type Media struct {
	ID        int       `json:"id"`
	Filename  string    `json:"filename" gorm:"notNull;uniqueIndex"`
	Digest    string    `json:"digest"`
	Size      int64     `json:"size"`
	UserID    int       `json:"user_id" gorm:"notNull;index"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	TweetID   *int      `json:"tweet_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the table name, which the pluralizer would otherwise guess.
func (Media) TableName() string {
	return "media"
}

// imageExtensions are the extensions of media files that are displayed as tweet attachments.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// IsImage reports whether the Media's filename has an image extension.
func (m *Media) IsImage() bool {
	return imageExtensions[strings.ToLower(filepath.Ext(m.Filename))]
}

// Upload holds the data of a file to be ingested as a new Media.
// Filename is the name the client gave the file, Size its length in bytes
// as reported by the client, or -1 if unknown.
type Upload struct {
	UserID   int
	Filename string
	Size     int64
	File     io.Reader
}

// MediaService is a set of methods to ingest and work with the Media model.
type MediaService interface {
	Create(ctx context.Context, upload *Upload) (*Media, error)
	ByID(ctx context.Context, id int) (*Media, error)
}

// MediaStore persists the bytes of media files. Implementations must never
// overwrite an existing file; unique names are the caller's responsibility.
type MediaStore interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64) error
	Delete(ctx context.Context, filename string) error
	URL(filename string) string
}
