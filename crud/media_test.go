package crud

import (
	"bytes"
	"context"
	"encoding/hex"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"tweetClone/domain"
	"tweetClone/errs"
)

func TestMediaCreate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	u1 := e.user(t, "User1", "k1")

	data := []byte("not really a png")
	m, err := e.Media.Create(ctx, &domain.Upload{
		UserID:   u1.ID,
		Filename: "Holiday Photo.PNG",
		Size:     int64(len(data)),
		File:     bytes.NewReader(data),
	})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-Z]{26}\.png$`), m.Filename)
	assert.Equal(t, int64(len(data)), m.Size)
	sum := blake2b.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), m.Digest)
	assert.Nil(t, m.TweetID)
	assert.Equal(t, data, e.store.files[m.Filename])

	found, err := e.Media.ByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Filename, found.Filename)

	_, err = e.Media.ByID(ctx, 999)
	assert.True(t, errs.Is(err, errs.ENOTFOUND))
}

func TestMediaCreateRejects(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	u1 := e.user(t, "User1", "k1")
	big := strings.Repeat("x", 1025)

	tests := []struct {
		name   string
		upload domain.Upload
		code   string
	}{
		{"declared size too large", domain.Upload{UserID: u1.ID, Filename: "a.png", Size: 1025, File: strings.NewReader(big)}, errs.EINVALID},
		{"streamed size too large", domain.Upload{UserID: u1.ID, Filename: "a.png", Size: -1, File: strings.NewReader(big)}, errs.EINVALID},
		{"lying about size", domain.Upload{UserID: u1.ID, Filename: "a.png", Size: 10, File: strings.NewReader(big)}, errs.EINVALID},
		{"no filename", domain.Upload{UserID: u1.ID, Filename: " ", Size: 1, File: strings.NewReader("x")}, errs.EINVALID},
		{"no file", domain.Upload{UserID: u1.ID, Filename: "a.png", Size: 1}, errs.EINVALID},
		{"no user", domain.Upload{Filename: "a.png", Size: 1, File: strings.NewReader("x")}, errs.EINVALID},
		{"unknown user", domain.Upload{UserID: 999, Filename: "a.png", Size: 1, File: strings.NewReader("x")}, errs.ENOTFOUND},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upload := tt.upload
			_, err := e.Media.Create(ctx, &upload)
			assert.Equal(t, tt.code, errs.ErrorCode(err))
		})
	}
	assert.EqualValues(t, 0, e.count(t, &domain.Media{}))
}

func TestMediaCreateRemovesFileWhenInsertFails(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	u1 := e.user(t, "User1", "k1")
	require.NoError(t, e.db.Migrator().DropTable(&domain.Media{}))

	_, err := e.Media.Create(ctx, &domain.Upload{UserID: u1.ID, Filename: "a.png", Size: 1, File: strings.NewReader("x")})
	require.Error(t, err)
	assert.Equal(t, errs.EINTERNAL, errs.ErrorCode(err))
	assert.Empty(t, e.store.files)
	assert.Len(t, e.store.deleted, 1)
}

func TestNewULIDIsUnique(t *testing.T) {
	const n = 500
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = make(map[string]bool, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := newULID().String()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}
