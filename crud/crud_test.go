package crud

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tweetClone/database"
	"tweetClone/domain"
)

// memStore is an in-memory domain.MediaStore.
type memStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}}
}

func (s *memStore) Save(ctx context.Context, filename string, r io.Reader, size int64) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[filename]; ok {
		return fmt.Errorf("%s already exists", filename)
	}
	s.files[filename] = b
	return nil
}

func (s *memStore) Delete(ctx context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, filename)
	s.deleted = append(s.deleted, filename)
	return nil
}

func (s *memStore) URL(filename string) string {
	return "http://media.test/" + filename
}

// testEnv bundles everything the crud tests need.
type testEnv struct {
	db    *gorm.DB
	store *memStore
	*Services
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db := database.CreateTempDB(t)
	store := newMemStore()
	s, err := NewServices(db,
		WithUser(),
		WithTweet(),
		WithMedia(store, 1024),
		WithFollow(),
		WithLike(),
		WithFeed(store))
	require.NoError(t, err)
	return &testEnv{db: db, store: store, Services: s}
}

func (e *testEnv) user(t *testing.T, name, key string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, APIKey: key}
	require.NoError(t, e.User.Create(context.Background(), u))
	return u
}

func (e *testEnv) tweet(t *testing.T, author *domain.User, content string, mediaIDs ...int) *domain.Tweet {
	t.Helper()
	tw := &domain.Tweet{Content: content, AuthorID: author.ID}
	require.NoError(t, e.Tweet.Create(context.Background(), tw, mediaIDs))
	return tw
}

func (e *testEnv) media(t *testing.T, owner *domain.User, filename string) *domain.Media {
	t.Helper()
	m, err := e.Media.Create(context.Background(), &domain.Upload{
		UserID:   owner.ID,
		Filename: filename,
		Size:     -1,
		File:     bytes.NewReader([]byte("bytes of " + filename)),
	})
	require.NoError(t, err)
	return m
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}
