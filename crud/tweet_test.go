package crud

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetClone/domain"
	"tweetClone/errs"
)

func TestTweetCreate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	u1 := e.user(t, "User1", "k1")
	u2 := e.user(t, "User2", "k2")

	t.Run("attaches media", func(t *testing.T) {
		m1 := e.media(t, u1, "a.png")
		m2 := e.media(t, u1, "b.txt")
		tw := e.tweet(t, u1, "hello", m1.ID, m2.ID)
		assert.NotZero(t, tw.ID)
		assert.Len(t, tw.Media, 2)

		found, err := e.Tweet.ByID(ctx, tw.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello", found.Content)
		assert.Equal(t, "User1", found.Author.Name)
		require.Len(t, found.Media, 2)
		assert.Equal(t, m1.ID, found.Media[0].ID)
		assert.Equal(t, tw.ID, *found.Media[0].TweetID)
	})

	t.Run("unknown media id", func(t *testing.T) {
		before := e.count(t, &domain.Tweet{})
		err := e.Tweet.Create(ctx, &domain.Tweet{Content: "text", AuthorID: u1.ID}, []int{999})
		assert.True(t, errs.Is(err, errs.EINVALID))
		assert.Equal(t, errs.MsgMediaNotFound, errs.ErrorMessage(err))
		assert.Equal(t, before, e.count(t, &domain.Tweet{}))
	})

	t.Run("repeated media id", func(t *testing.T) {
		m := e.media(t, u1, "r.png")
		before := e.count(t, &domain.Tweet{})
		err := e.Tweet.Create(ctx, &domain.Tweet{Content: "text", AuthorID: u1.ID}, []int{m.ID, m.ID})
		assert.True(t, errs.Is(err, errs.EINVALID))
		assert.Equal(t, errs.MsgMediaNotFound, errs.ErrorMessage(err))
		assert.Equal(t, before, e.count(t, &domain.Tweet{}))

		found, err := e.Media.ByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Nil(t, found.TweetID)
	})

	t.Run("media of another user", func(t *testing.T) {
		m := e.media(t, u2, "c.png")
		tw := e.tweet(t, u1, "text", m.ID)
		require.Len(t, tw.Media, 1)
		assert.Equal(t, m.ID, tw.Media[0].ID)
	})

	t.Run("media already attached", func(t *testing.T) {
		m := e.media(t, u1, "d.png")
		e.tweet(t, u1, "first", m.ID)
		err := e.Tweet.Create(ctx, &domain.Tweet{Content: "second", AuthorID: u1.ID}, []int{m.ID})
		assert.True(t, errs.Is(err, errs.EINVALID))
	})

	t.Run("content", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
			valid   bool
		}{
			{"blank", "   ", false},
			{"empty", "", false},
			{"too long", strings.Repeat("a", domain.MaxContentLength+1), false},
			{"max length in runes", strings.Repeat("ü", domain.MaxContentLength), true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := e.Tweet.Create(ctx, &domain.Tweet{Content: tt.content, AuthorID: u1.ID}, nil)
				if tt.valid {
					assert.NoError(t, err)
				} else {
					assert.True(t, errs.Is(err, errs.EINVALID))
				}
			})
		}
	})

	t.Run("unknown author", func(t *testing.T) {
		err := e.Tweet.Create(ctx, &domain.Tweet{Content: "text", AuthorID: 999}, nil)
		assert.True(t, errs.Is(err, errs.ENOTFOUND))
		err = e.Tweet.Create(ctx, &domain.Tweet{Content: "text"}, nil)
		assert.True(t, errs.Is(err, errs.EINVALID))
	})
}

func TestTweetDelete(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	u1 := e.user(t, "User1", "k1")
	u2 := e.user(t, "User2", "k2")
	m := e.media(t, u1, "a.png")
	tw := e.tweet(t, u1, "hello", m.ID)
	require.NoError(t, e.Like.Create(ctx, u1.ID, tw.ID))
	require.NoError(t, e.Like.Create(ctx, u2.ID, tw.ID))

	err := e.Tweet.Delete(ctx, tw.ID, u2.ID)
	assert.True(t, errs.Is(err, errs.EFORBIDDEN))
	assert.EqualValues(t, 2, e.count(t, &domain.Like{}))

	require.NoError(t, e.Tweet.Delete(ctx, tw.ID, u1.ID))
	_, err = e.Tweet.ByID(ctx, tw.ID)
	assert.True(t, errs.Is(err, errs.ENOTFOUND))
	assert.EqualValues(t, 0, e.count(t, &domain.Like{}))

	found, err := e.Media.ByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, found.TweetID)

	err = e.Tweet.Delete(ctx, tw.ID, u1.ID)
	assert.True(t, errs.Is(err, errs.ENOTFOUND))
	err = e.Tweet.Delete(ctx, 0, u1.ID)
	assert.True(t, errs.Is(err, errs.EINVALID))
}
