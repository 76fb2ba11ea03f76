package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"tweetClone/domain"
	"tweetClone/errs"
)

const defaultContentType = "application/octet-stream"

// ClientMinio is the part of the minio client used by MinioStore.
type ClientMinio interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// MinioStore keeps media files in a bucket of an S3 compatible object storage.
// It implements the domain.MediaStore interface.
type MinioStore struct {
	client    ClientMinio
	bucket    string
	publicURL string
}

// Ensure the MinioStore struct properly implements the domain.MediaStore interface.
var _ domain.MediaStore = &MinioStore{}

// NewMinioStore creates a minio client for endpoint and returns a MinioStore on top of it.
// When publicURL is empty, objects are addressed as <endpoint>/<bucket>/<filename>.
func NewMinioStore(endpoint, accessKeyID, secretAccessKey, bucket, publicURL string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating minio client")
	}
	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
	}
	return NewMinioStoreWithClient(client, bucket, publicURL), nil
}

// NewMinioStoreWithClient returns a MinioStore using an existing client.
func NewMinioStoreWithClient(client ClientMinio, bucket, publicURL string) *MinioStore {
	return &MinioStore{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
	}
}

// Save uploads the data from r as a new object. It refuses to overwrite an existing object.
// size may be -1, in which case the data is streamed in a multipart upload.
func (s *MinioStore) Save(ctx context.Context, filename string, r io.Reader, size int64) error {
	if err := validName(filename); err != nil {
		return err
	}
	_, err := s.client.StatObject(ctx, s.bucket, filename, minio.StatObjectOptions{})
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "Media file %s already exists.", filename)
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return errors.Wrapf(err, "checking object %s", filename)
	}
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = defaultContentType
	}
	_, err = s.client.PutObject(ctx, s.bucket, filename, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "uploading object %s", filename)
	}
	return nil
}

// Delete removes an object from the bucket.
func (s *MinioStore) Delete(ctx context.Context, filename string) error {
	if err := validName(filename); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, filename, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "removing object %s", filename)
	}
	return nil
}

// URL returns the public url of an object.
func (s *MinioStore) URL(filename string) string {
	return joinURL(s.publicURL, url.PathEscape(filename))
}
