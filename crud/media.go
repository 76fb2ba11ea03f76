package crud

import (
	"context"
	"encoding/hex"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tweetClone/domain"
	"tweetClone/errs"
)

// MediaService manages Media. It streams uploaded files into a domain.MediaStore
// and keeps a database record of every stored file.
// It implements the domain.MediaService interface.
type MediaService struct {
	mediaValidator
}

// mediaValidator runs validations on incoming Upload data.
// On success, it passes the data on to mediaGorm.
// Otherwise, it returns the error of the validation that has failed.
type mediaValidator struct {
	maxSize int64
	mediaGorm
}

// mediaGorm stores files in the MediaStore and runs CRUD operations on the database.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type mediaGorm struct {
	db    *gorm.DB
	store domain.MediaStore
	log   *zerolog.Logger
}

// NewMediaService returns an instance of MediaService. Uploads larger than
// maxSize bytes are rejected; a maxSize <= 0 means domain.MaxUploadSize.
func NewMediaService(db *gorm.DB, store domain.MediaStore, maxSize int64, log *zerolog.Logger) *MediaService {
	if maxSize <= 0 {
		maxSize = domain.MaxUploadSize
	}
	return &MediaService{
		mediaValidator{
			maxSize: maxSize,
			mediaGorm: mediaGorm{
				db:    db,
				store: store,
				log:   log,
			},
		},
	}
}

// Ensure the MediaService struct properly implements the domain.MediaService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.MediaService = &MediaService{}

// Create runs validations needed for storing uploaded files. The upload's Filename
// is replaced by the unique name the file is stored under.
func (mv *mediaValidator) Create(ctx context.Context, upload *domain.Upload) (*domain.Media, error) {
	err := runMediaValFns(ctx, upload,
		mv.userIdValid,
		mv.fileRequired,
		mv.filenameRequired,
		mv.belowMaxSize,
		mv.uploaderExists,
		mv.limitFileSize,
		mv.fileNameUnique)
	if err != nil {
		return nil, err
	}
	return mv.mediaGorm.Create(ctx, upload)
}

// runMediaValFns runs any number of functions of type mediaValFn on the passed in Upload object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runMediaValFns(ctx context.Context, upload *domain.Upload, fns ...mediaValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, upload); err != nil {
			return err
		}
	}
	return nil
}

// A mediaValFn is any function that takes in a pointer to a domain.Upload object and returns an error.
type mediaValFn func(ctx context.Context, upload *domain.Upload) error

// userIdValid ensures that the id of the uploader is not empty.
func (mv *mediaValidator) userIdValid(ctx context.Context, upload *domain.Upload) error {
	if upload.UserID <= 0 {
		return errs.UserIdInvalid
	}
	return nil
}

// fileRequired makes sure that there is something to read from.
func (mv *mediaValidator) fileRequired(ctx context.Context, upload *domain.Upload) error {
	if upload.File == nil {
		return errs.Errorf(errs.EINVALID, "A file is required.")
	}
	return nil
}

// filenameRequired makes sure that the upload has a usable original filename.
func (mv *mediaValidator) filenameRequired(ctx context.Context, upload *domain.Upload) error {
	name := filepath.Base(strings.TrimSpace(upload.Filename))
	if name == "." || name == "/" || name == "" {
		return errs.Errorf(errs.EINVALID, "A filename is required.")
	}
	upload.Filename = name
	return nil
}

// belowMaxSize makes sure that the size reported by the client does not exceed the limit.
func (mv *mediaValidator) belowMaxSize(ctx context.Context, upload *domain.Upload) error {
	if upload.Size > mv.maxSize {
		return errTooLarge(upload.Filename, mv.maxSize)
	}
	return nil
}

// uploaderExists makes sure that the uploading user actually exists.
func (mv *mediaValidator) uploaderExists(ctx context.Context, upload *domain.Upload) error {
	found, err := exists(mv.db.WithContext(ctx), &domain.User{}, "id = ?", upload.UserID)
	if err != nil {
		return err
	}
	if !found {
		return errs.Errorf(errs.ENOTFOUND, errs.MsgUserNotFound)
	}
	return nil
}

// limitFileSize makes reading the file fail as soon as it exceeds the limit,
// since the reported size can't be trusted.
func (mv *mediaValidator) limitFileSize(ctx context.Context, upload *domain.Upload) error {
	upload.File = &limitedReader{
		r:    upload.File,
		left: mv.maxSize,
		err:  errTooLarge(upload.Filename, mv.maxSize),
	}
	return nil
}

// fileNameUnique replaces the upload's name with a ULID, keeping its lowercased extension.
func (mv *mediaValidator) fileNameUnique(ctx context.Context, upload *domain.Upload) error {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	upload.Filename = newULID().String() + ext
	return nil
}

func errTooLarge(filename string, maxSize int64) error {
	return errs.Errorf(errs.EINVALID, "Media %s exceeds upload size limit of %d bytes.", filename, maxSize)
}

// limitedReader reads from r until more than left bytes have been read, then returns err.
type limitedReader struct {
	r    io.Reader
	left int64
	err  error
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.left -= int64(n)
	if l.left < 0 {
		return n, l.err
	}
	return n, err
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// newULID returns a new, monotonically increasing ULID. Safe for concurrent use.
func newULID() ulid.ULID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// ByID retrieves a single Media by ID.
// If the record doesn't exist, it returns errs.ENOTFOUND.
func (mg *mediaGorm) ByID(ctx context.Context, id int) (*domain.Media, error) {
	var media domain.Media
	db := mg.db.WithContext(ctx).Where("id = ?", id)
	if err := first(db, &media, "Media not found."); err != nil {
		return nil, err
	}
	return &media, nil
}

// Create streams the upload into the MediaStore while computing its digest, and then
// stores a new Media record for it. The store write happens outside of any transaction.
// If the record can't be stored, the file is removed from the MediaStore again.
func (mg *mediaGorm) Create(ctx context.Context, upload *domain.Upload) (*domain.Media, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	counter := &countingWriter{}
	r := io.TeeReader(upload.File, io.MultiWriter(h, counter))
	if err := mg.store.Save(ctx, upload.Filename, r, upload.Size); err != nil {
		return nil, errors.Wrapf(err, "saving media %s", upload.Filename)
	}
	media := &domain.Media{
		Filename: upload.Filename,
		Digest:   hex.EncodeToString(h.Sum(nil)),
		Size:     counter.n,
		UserID:   upload.UserID,
	}
	err = mg.db.WithContext(ctx).Omit(clause.Associations).Create(media).Error
	if err != nil {
		if delErr := mg.store.Delete(ctx, media.Filename); delErr != nil {
			mg.log.Error().Err(delErr).Str("filename", media.Filename).Msg("cannot remove orphaned media file")
		}
		return nil, errors.Wrapf(err, "inserting media %s", media.Filename)
	}
	mg.log.Debug().Int("media_id", media.ID).Str("filename", media.Filename).Int64("size", media.Size).Msg("media stored")
	return media, nil
}

// countingWriter counts the bytes written to it.
type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
