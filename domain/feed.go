package domain

import "context"

// UserRef is the short form of a User used inside of aggregates.
type UserRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LikeRef is the short form of a Like used inside of a TweetView.
type LikeRef struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
}

// Profile is the response-ready aggregate of a User and its follow relations.
type Profile struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Followers []UserRef `json:"followers"`
	Following []UserRef `json:"following"`
}

// TweetView is the response-ready aggregate of a Tweet, its author, its image
// attachments and its likes.
type TweetView struct {
	ID          int       `json:"id"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments"`
	Author      UserRef   `json:"author"`
	Likes       []LikeRef `json:"likes"`
}

// FeedService assembles Profiles, single TweetViews and the global feed.
type FeedService interface {
	Profile(user *User) Profile
	Tweet(tweet *Tweet) TweetView
	Feed(ctx context.Context) ([]TweetView, error)
}
