package domain

import (
	"context"
	"time"
)

// Like represents a many-to-many relationship between a User and a Tweet.
// A user can like a tweet at most once, which is enforced by a unique index
// on the (user_id, tweet_id) pair. It's destroyed when the user unlikes the
// tweet, or when the tweet gets deleted.
type Like struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id" gorm:"notNull;uniqueIndex:idx_likes_user_tweet"`
	User      User      `json:"user" gorm:"constraint:OnDelete:CASCADE"`
	TweetID   int       `json:"tweet_id" gorm:"notNull;uniqueIndex:idx_likes_user_tweet;index"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	Create(ctx context.Context, userID, tweetID int) error
	Delete(ctx context.Context, userID, tweetID int) error
}
