package storage

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"tweetClone/domain"
)

// LocalStore keeps media files in a directory of the local filesystem.
// It implements the domain.MediaStore interface.
type LocalStore struct {
	dir     string
	baseURL string
}

// Ensure the LocalStore struct properly implements the domain.MediaStore interface.
var _ domain.MediaStore = &LocalStore{}

// NewLocalStore returns a LocalStore writing to dir, creating dir if necessary.
// baseURL is the url prefix under which the files in dir are served.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating media dir %s", dir)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

// Dir returns the directory the store writes to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save creates a new file named filename inside the store's directory and copies
// the data from r into it. It refuses to overwrite an existing file. On failure,
// a partially written file is removed again.
func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader, size int64) error {
	if err := validName(filename); err != nil {
		return err
	}
	path := filepath.Join(s.dir, filename)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrapf(err, "creating media file %s", filename)
	}
	_, err = io.Copy(dst, r)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return errors.Wrapf(err, "writing media file %s", filename)
	}
	return nil
}

// Delete removes a file from the store. Deleting a missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, filename string) error {
	if err := validName(filename); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing media file %s", filename)
	}
	return nil
}

// URL returns the url under which a stored file is served.
func (s *LocalStore) URL(filename string) string {
	return joinURL(s.baseURL, url.PathEscape(filename))
}
