package crud

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tweetClone/domain"
	"tweetClone/errs"
)

// TweetService manages Tweets and the attachment of Media to them.
// It implements the domain.TweetService interface.
type TweetService struct {
	tweetValidator
}

// tweetValidator runs validations on incoming Tweet data.
// On success, it passes the data on to tweetGorm.
// Otherwise, it returns the error of the validation that has failed.
type tweetValidator struct {
	tweetGorm
}

// tweetGorm runs CRUD operations on the database using incoming Tweet data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type tweetGorm struct {
	db  *gorm.DB
	log *zerolog.Logger
}

// NewTweetService returns an instance of TweetService.
func NewTweetService(db *gorm.DB, log *zerolog.Logger) *TweetService {
	return &TweetService{
		tweetValidator{
			tweetGorm{
				db:  db,
				log: log,
			},
		},
	}
}

// Ensure the TweetService struct properly implements the domain.TweetService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.TweetService = &TweetService{}

// Create runs validations needed for creating new Tweet database records, and makes sure
// that every media id resolves to an existing Media that is not attached yet. The Tweet is
// inserted and the Media are attached to it in the same transaction.
func (tv *tweetValidator) Create(ctx context.Context, tweet *domain.Tweet, mediaIDs []int) error {
	return tv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := runTweetValFns(tx, tweet,
			tv.authorIdValid,
			tv.contentMinLength,
			tv.contentMaxLength,
			tv.authorExists)
		if err != nil {
			return err
		}
		media, err := tv.attachableMedia(tx, mediaIDs)
		if err != nil {
			return err
		}
		return tv.tweetGorm.Create(tx, tweet, media)
	})
}

// Delete makes sure that the Tweet exists and that the caller is its author,
// then deletes it within the same transaction.
func (tv *tweetValidator) Delete(ctx context.Context, id, callerID int) error {
	if id <= 0 {
		return errs.IdInvalid
	}
	return tv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tweet domain.Tweet
		if err := first(tx.Where("id = ?", id), &tweet, errs.MsgTweetNotFound); err != nil {
			return err
		}
		if tweet.AuthorID != callerID {
			return errs.Errorf(errs.EFORBIDDEN, "You can only delete your own tweets.")
		}
		return tv.tweetGorm.Delete(tx, &tweet)
	})
}

// runTweetValFns runs any number of functions of type tweetValFn on the passed in Tweet object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runTweetValFns(tx *gorm.DB, tweet *domain.Tweet, fns ...tweetValFn) error {
	for _, fn := range fns {
		if err := fn(tx, tweet); err != nil {
			return err
		}
	}
	return nil
}

// A tweetValFn is any function that takes in a transaction and a pointer to a domain.Tweet
// object and returns an error.
type tweetValFn = func(tx *gorm.DB, tweet *domain.Tweet) error

// contentMinLength makes sure that the Tweet's content is not blank.
func (tv *tweetValidator) contentMinLength(tx *gorm.DB, tweet *domain.Tweet) error {
	if strings.TrimSpace(tweet.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Tweet content must not be empty.")
	}
	return nil
}

// contentMaxLength makes sure that the Tweet's content does not exceed the maximum content length.
func (tv *tweetValidator) contentMaxLength(tx *gorm.DB, tweet *domain.Tweet) error {
	if utf8.RuneCountInString(tweet.Content) > domain.MaxContentLength {
		return errs.Errorf(errs.EINVALID, "Tweet content max length is %d characters.", domain.MaxContentLength)
	}
	return nil
}

// authorIdValid ensures that the author id is not empty.
func (tv *tweetValidator) authorIdValid(tx *gorm.DB, tweet *domain.Tweet) error {
	if tweet.AuthorID <= 0 {
		return errs.UserIdInvalid
	}
	return nil
}

// authorExists makes sure that the author of the Tweet actually exists.
func (tv *tweetValidator) authorExists(tx *gorm.DB, tweet *domain.Tweet) error {
	found, err := exists(tx, &domain.User{}, "id = ?", tweet.AuthorID)
	if err != nil {
		return err
	}
	if !found {
		return errs.Errorf(errs.ENOTFOUND, errs.MsgUserNotFound)
	}
	return nil
}

// attachableMedia loads the Media with the given ids. It fails unless there are as many
// Media as requested ids, so unknown and repeated ids are both rejected. A Media that is
// attached to another Tweet already can't be attached again.
func (tv *tweetValidator) attachableMedia(tx *gorm.DB, ids []int) ([]domain.Media, error) {
	media := []domain.Media{}
	if len(ids) == 0 {
		return media, nil
	}
	if err := tx.Where("id IN ?", ids).Order("id").Find(&media).Error; err != nil {
		return nil, err
	}
	if len(media) < len(ids) {
		return nil, errs.Errorf(errs.EINVALID, errs.MsgMediaNotFound)
	}
	for _, m := range media {
		if m.TweetID != nil {
			return nil, errs.Errorf(errs.EINVALID, "Media %d is already attached to a tweet.", m.ID)
		}
	}
	return media, nil
}

// ByID retrieves a single Tweet by ID, along with its Author, Media and Likes.
// If the record doesn't exist, it returns errs.ENOTFOUND. Otherwise, it returns nil.
func (tg *tweetGorm) ByID(ctx context.Context, id int) (*domain.Tweet, error) {
	var tweet domain.Tweet
	db := tg.db.WithContext(ctx).
		Preload("Author").
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("media.id") }).
		Preload("Likes", func(db *gorm.DB) *gorm.DB { return db.Order("likes.id") }).
		Preload("Likes.User").
		Where("id = ?", id)
	if err := first(db, &tweet, errs.MsgTweetNotFound); err != nil {
		return nil, err
	}
	return &tweet, nil
}

// Create stores the data from the Tweet object in a new database record
// and points the passed in Media at it.
func (tg *tweetGorm) Create(tx *gorm.DB, tweet *domain.Tweet, media []domain.Media) error {
	if err := tx.Omit(clause.Associations).Create(tweet).Error; err != nil {
		return err
	}
	if len(media) > 0 {
		ids := make([]int, len(media))
		for i := range media {
			ids[i] = media[i].ID
			media[i].TweetID = &tweet.ID
		}
		res := tx.Model(&domain.Media{}).
			Where("id IN ? AND tweet_id IS NULL", ids).
			Update("tweet_id", tweet.ID)
		if res.Error != nil {
			return res.Error
		}
		if int(res.RowsAffected) != len(ids) {
			return errs.Errorf(errs.EINVALID, "Media is already attached to a tweet.")
		}
	}
	tweet.Media = media
	tg.log.Debug().Int("tweet_id", tweet.ID).Int("author_id", tweet.AuthorID).Int("media", len(media)).Msg("tweet created")
	return nil
}

// Delete permanently deletes a Tweet record along with its Likes. Its Media are kept,
// but detached from it.
func (tg *tweetGorm) Delete(tx *gorm.DB, tweet *domain.Tweet) error {
	if err := tx.Where("tweet_id = ?", tweet.ID).Delete(&domain.Like{}).Error; err != nil {
		return err
	}
	err := tx.Model(&domain.Media{}).
		Where("tweet_id = ?", tweet.ID).
		Update("tweet_id", gorm.Expr("NULL")).Error
	if err != nil {
		return err
	}
	if err := tx.Delete(&domain.Tweet{}, tweet.ID).Error; err != nil {
		return err
	}
	tg.log.Debug().Int("tweet_id", tweet.ID).Msg("tweet deleted")
	return nil
}
