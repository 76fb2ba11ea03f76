package crud

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tweetClone/domain"
	"tweetClone/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Create runs validations needed for creating new Like database records.
// The duplicate check and the insert share one transaction; the unique index
// on (user_id, tweet_id) settles concurrent likes.
func (lv *likeValidator) Create(ctx context.Context, userID, tweetID int) error {
	like := &domain.Like{UserID: userID, TweetID: tweetID}
	return lv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := runLikeValFns(tx, like,
			lv.userIdValid,
			lv.tweetIdValid,
			lv.likedTweetExists,
			lv.notAlreadyLiked)
		if err != nil {
			return err
		}
		return lv.likeGorm.Create(tx, like)
	})
}

// Delete runs validations needed for deleting existing Like database records.
func (lv *likeValidator) Delete(ctx context.Context, userID, tweetID int) error {
	like := &domain.Like{UserID: userID, TweetID: tweetID}
	return lv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := runLikeValFns(tx, like,
			lv.userIdValid,
			lv.tweetIdValid,
			lv.likeExists)
		if err != nil {
			return err
		}
		return lv.likeGorm.Delete(tx, like)
	})
}

// runLikeValFns runs any number of functions of type likeValFn on the passed in Like object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runLikeValFns(tx *gorm.DB, like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(tx, like); err != nil {
			return err
		}
	}
	return nil
}

// A likeValFn is any function that takes in a transaction and a pointer to a domain.Like
// object and returns an error.
type likeValFn func(tx *gorm.DB, like *domain.Like) error

// likeExists makes sure that the Like record to be deleted actually exists.
// On success, the Like's ID is set.
func (lv *likeValidator) likeExists(tx *gorm.DB, like *domain.Like) error {
	db := tx.Where("user_id = ? AND tweet_id = ?", like.UserID, like.TweetID)
	return first(db, like, "You cannot unlike a tweet you have not liked.")
}

// likedTweetExists makes sure that the tweet to be liked actually exists.
func (lv *likeValidator) likedTweetExists(tx *gorm.DB, like *domain.Like) error {
	found, err := exists(tx, &domain.Tweet{}, "id = ?", like.TweetID)
	if err != nil {
		return err
	}
	if !found {
		return errs.Errorf(errs.ENOTFOUND, errs.MsgTweetNotFound)
	}
	return nil
}

// notAlreadyLiked makes sure that the user doesn't already like the tweet.
func (lv *likeValidator) notAlreadyLiked(tx *gorm.DB, like *domain.Like) error {
	found, err := exists(tx, &domain.Like{}, "user_id = ? AND tweet_id = ?", like.UserID, like.TweetID)
	if err != nil {
		return err
	}
	if found {
		return errs.Errorf(errs.ECONFLICT, errs.MsgAlreadyLiked)
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (lv *likeValidator) userIdValid(tx *gorm.DB, like *domain.Like) error {
	if like.UserID <= 0 {
		return errs.UserIdInvalid
	}
	return nil
}

// tweetIdValid ensures that the tweetId is a positive number.
func (lv *likeValidator) tweetIdValid(tx *gorm.DB, like *domain.Like) error {
	if like.TweetID <= 0 {
		return errs.IdInvalid
	}
	return nil
}

// Create stores the data from the Like object in a new database record.
// A violation of the unique (user_id, tweet_id) index is returned as errs.ECONFLICT.
func (lg *likeGorm) Create(tx *gorm.DB, like *domain.Like) error {
	err := tx.Omit(clause.Associations).Create(like).Error
	if isUniqueViolation(err) {
		return errs.Errorf(errs.ECONFLICT, errs.MsgAlreadyLiked)
	}
	return err
}

// Delete permanently deletes the database record of the Like object.
func (lg *likeGorm) Delete(tx *gorm.DB, like *domain.Like) error {
	return tx.Delete(&domain.Like{}, like.ID).Error
}
