package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetClone/errs"
)

type fakeMinio struct {
	objects      map[string][]byte
	contentTypes map[string]string
}

func newFakeMinio() *fakeMinio {
	return &fakeMinio{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	b, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	key := bucketName + "/" + objectName
	f.objects[key] = b
	f.contentTypes[key] = opts.ContentType
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(b))}, nil
}

func (f *fakeMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	delete(f.objects, bucketName+"/"+objectName)
	return nil
}

func (f *fakeMinio) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	b, ok := f.objects[bucketName+"/"+objectName]
	if !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", BucketName: bucketName, Key: objectName}
	}
	return minio.ObjectInfo{Key: objectName, Size: int64(len(b))}, nil
}

func TestMinioStore(t *testing.T) {
	ctx := context.Background()
	client := newFakeMinio()
	s := NewMinioStoreWithClient(client, "media", "https://cdn.example.com/media")

	require.NoError(t, s.Save(ctx, "a.png", strings.NewReader("png bytes"), 9))
	assert.Equal(t, []byte("png bytes"), client.objects["media/a.png"])
	assert.Equal(t, "image/png", client.contentTypes["media/a.png"])

	require.NoError(t, s.Save(ctx, "notes.unknownext", strings.NewReader("x"), 1))
	assert.Equal(t, defaultContentType, client.contentTypes["media/notes.unknownext"])

	err := s.Save(ctx, "a.png", strings.NewReader("again"), 5)
	assert.True(t, errs.Is(err, errs.ECONFLICT))
	assert.Equal(t, []byte("png bytes"), client.objects["media/a.png"])

	assert.True(t, errs.Is(s.Save(ctx, "../a.png", strings.NewReader("x"), 1), errs.EINVALID))

	assert.Equal(t, "https://cdn.example.com/media/a.png", s.URL("a.png"))

	require.NoError(t, s.Delete(ctx, "a.png"))
	_, ok := client.objects["media/a.png"]
	assert.False(t, ok)
}

func TestNewMinioStoreDefaultPublicURL(t *testing.T) {
	s, err := NewMinioStore("localhost:9000", "key", "secret", "media", "", false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/media/a.gif", s.URL("a.gif"))
}
