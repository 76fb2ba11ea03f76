// Package auth carries the identity of the caller through a request's context.
package auth

import (
	"context"

	"tweetClone/domain"
)

const userKey privateKey = "user"

type privateKey string

// SetUser returns a copy of ctx carrying the resolved caller.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the caller stored by SetUser, or nil if the request is anonymous.
func GetUser(ctx context.Context) *domain.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*domain.User); ok {
			return user
		}
	}
	return nil
}
