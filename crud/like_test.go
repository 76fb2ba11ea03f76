package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetClone/domain"
	"tweetClone/errs"
)

func TestLike(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	u1 := e.user(t, "User1", "k1")
	tw := e.tweet(t, u1, "hello")

	require.NoError(t, e.Like.Create(ctx, u1.ID, tw.ID))

	err := e.Like.Create(ctx, u1.ID, tw.ID)
	assert.True(t, errs.Is(err, errs.ECONFLICT))
	assert.Equal(t, errs.MsgAlreadyLiked, errs.ErrorMessage(err))

	require.NoError(t, e.Like.Delete(ctx, u1.ID, tw.ID))
	err = e.Like.Delete(ctx, u1.ID, tw.ID)
	assert.True(t, errs.Is(err, errs.ENOTFOUND))

	require.NoError(t, e.Like.Create(ctx, u1.ID, tw.ID))
	assert.EqualValues(t, 1, e.count(t, &domain.Like{}))
}

func TestLikeMissingTweet(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	u1 := e.user(t, "User1", "k1")

	err := e.Like.Create(ctx, u1.ID, 999)
	assert.True(t, errs.Is(err, errs.ENOTFOUND))
	assert.Equal(t, errs.MsgTweetNotFound, errs.ErrorMessage(err))
	assert.True(t, errs.Is(e.Like.Create(ctx, u1.ID, 0), errs.EINVALID))
	assert.True(t, errs.Is(e.Like.Create(ctx, 0, 1), errs.EINVALID))
}

// The unique index decides when two requests pass the duplicate check at the same time.
func TestLikeUniqueViolationIsConflict(t *testing.T) {
	e := setup(t)
	u1 := e.user(t, "User1", "k1")
	tw := e.tweet(t, u1, "hello")

	require.NoError(t, e.Like.likeGorm.Create(e.db, &domain.Like{UserID: u1.ID, TweetID: tw.ID}))
	err := e.Like.likeGorm.Create(e.db, &domain.Like{UserID: u1.ID, TweetID: tw.ID})
	assert.True(t, errs.Is(err, errs.ECONFLICT))
}
