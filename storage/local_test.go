package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetClone/errs"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "media")
	s, err := NewLocalStore(dir, "http://localhost:3000/media/")
	require.NoError(t, err)

	t.Run("save writes the file", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "a.png", strings.NewReader("png bytes"), 9))
		b, err := os.ReadFile(filepath.Join(dir, "a.png"))
		require.NoError(t, err)
		assert.Equal(t, "png bytes", string(b))
	})

	t.Run("save never overwrites", func(t *testing.T) {
		err := s.Save(ctx, "a.png", strings.NewReader("other"), 5)
		require.Error(t, err)
		b, err := os.ReadFile(filepath.Join(dir, "a.png"))
		require.NoError(t, err)
		assert.Equal(t, "png bytes", string(b))
	})

	t.Run("invalid names are rejected", func(t *testing.T) {
		for _, name := range []string{"", ".", "..", "../x.png", "a/b.png", `a\b.png`} {
			err := s.Save(ctx, name, strings.NewReader("x"), 1)
			assert.True(t, errs.Is(err, errs.EINVALID), name)
		}
	})

	t.Run("url", func(t *testing.T) {
		assert.Equal(t, "http://localhost:3000/media/a.png", s.URL("a.png"))
		assert.Equal(t, "http://localhost:3000/media/a%20b.png", s.URL("a b.png"))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "a.png"))
		_, err := os.Stat(filepath.Join(dir, "a.png"))
		assert.True(t, os.IsNotExist(err))
		assert.NoError(t, s.Delete(ctx, "a.png"))
	})
}
