package domain

import (
	"context"
	"time"
)

// MaxContentLength is the maximum number of characters a Tweet's content may have.
const MaxContentLength = 280

// Tweet represents a short text posted by a user. The author of a Tweet is set once
// on creation and never changes. Deleting a Tweet deletes its Likes, while its Media
// are only detached from it.
type Tweet struct {
	ID        int       `json:"id"`
	Content   string    `json:"content" gorm:"notNull"`
	AuthorID  int       `json:"author_id" gorm:"notNull;index"`
	Author    User      `json:"author" gorm:"constraint:OnDelete:CASCADE"`
	Media     []Media   `json:"media" gorm:"foreignKey:TweetID;constraint:OnDelete:SET NULL"`
	Likes     []Like    `json:"likes" gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TweetService is a set of methods to manipulate and work with the Tweet model.
type TweetService interface {
	ByID(ctx context.Context, id int) (*Tweet, error)
	Create(ctx context.Context, tweet *Tweet, mediaIDs []int) error
	Delete(ctx context.Context, id, callerID int) error
}
