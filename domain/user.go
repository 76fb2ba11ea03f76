package domain

import (
	"context"
	"time"
)

// User represents a user of the app. Users are identified by the callers of the api
// through their APIKey, which is looked up verbatim. Followers holds the Follows in
// which the user is the followed one, Following the Follows in which the user follows.
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name" gorm:"notNull"`
	APIKey    string    `json:"-" gorm:"notNull;uniqueIndex"`
	Followers []Follow  `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
	Following []Follow  `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
// ByID and ByAPIKey eager-load the user's Followers and Following together with
// the user on the other end of each Follow.
type UserService interface {
	ByID(ctx context.Context, id int) (*User, error)
	ByAPIKey(ctx context.Context, key string) (*User, error)
	Create(ctx context.Context, user *User) error
}
