package crud

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tweetClone/domain"
	"tweetClone/errs"
)

// FollowService manages Follows.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

// followValidator runs validations on incoming Follow data.
// On success, it passes the data on to followGorm.
// Otherwise, it returns the error of the validation that has failed.
type followValidator struct {
	followGorm
}

// followGorm runs CRUD operations on the database using incoming Follow data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

// Ensure the FollowService struct properly implements the domain.FollowService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FollowService = &FollowService{}

// Create runs validations needed for creating new Follow database records.
// The duplicate check and the insert share one transaction; the unique index
// on (follower_id, followed_id) settles concurrent follows.
func (fv *followValidator) Create(ctx context.Context, followerID, followedID int) error {
	follow := &domain.Follow{FollowerID: followerID, FollowedID: followedID}
	return fv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := runFollowValFns(tx, follow,
			fv.followerIdValid,
			fv.followedIdValid,
			fv.followedExists,
			fv.notSelf,
			fv.notAlreadyFollowing)
		if err != nil {
			return err
		}
		return fv.followGorm.Create(tx, follow)
	})
}

// Delete runs validations needed for deleting existing Follow database records.
func (fv *followValidator) Delete(ctx context.Context, followerID, followedID int) error {
	follow := &domain.Follow{FollowerID: followerID, FollowedID: followedID}
	return fv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := runFollowValFns(tx, follow,
			fv.followerIdValid,
			fv.followedIdValid,
			fv.followedExists,
			fv.followExists)
		if err != nil {
			return err
		}
		return fv.followGorm.Delete(tx, follow)
	})
}

// runFollowValFns runs any number of functions of type followValFn on the passed in Follow object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runFollowValFns(tx *gorm.DB, follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(tx, follow); err != nil {
			return err
		}
	}
	return nil
}

// A followValFn is any function that takes in a transaction and a pointer to a domain.Follow
// object and returns an error.
type followValFn func(tx *gorm.DB, follow *domain.Follow) error

// followerIdValid ensures that the id of the following user is not empty.
func (fv *followValidator) followerIdValid(tx *gorm.DB, follow *domain.Follow) error {
	if follow.FollowerID <= 0 {
		return errs.UserIdInvalid
	}
	return nil
}

// followedIdValid ensures that the id of the followed user is a positive number.
func (fv *followValidator) followedIdValid(tx *gorm.DB, follow *domain.Follow) error {
	if follow.FollowedID <= 0 {
		return errs.UserIdInvalid
	}
	return nil
}

// followedExists makes sure that the user to be followed or unfollowed actually exists.
func (fv *followValidator) followedExists(tx *gorm.DB, follow *domain.Follow) error {
	found, err := exists(tx, &domain.User{}, "id = ?", follow.FollowedID)
	if err != nil {
		return err
	}
	if !found {
		return errs.Errorf(errs.ENOTFOUND, errs.MsgUserNotFound)
	}
	return nil
}

// notSelf makes sure that users don't follow themselves.
func (fv *followValidator) notSelf(tx *gorm.DB, follow *domain.Follow) error {
	if follow.FollowerID == follow.FollowedID {
		return errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	return nil
}

// notAlreadyFollowing makes sure that the follower doesn't already follow the followed user.
func (fv *followValidator) notAlreadyFollowing(tx *gorm.DB, follow *domain.Follow) error {
	found, err := exists(tx, &domain.Follow{}, "follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID)
	if err != nil {
		return err
	}
	if found {
		return errs.Errorf(errs.ECONFLICT, errs.MsgAlreadyFollowed)
	}
	return nil
}

// followExists makes sure that the Follow record to be deleted actually exists.
// On success, the Follow's ID is set.
func (fv *followValidator) followExists(tx *gorm.DB, follow *domain.Follow) error {
	db := tx.Where("follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID)
	return first(db, follow, "You cannot unfollow a user you are not following.")
}

// Create stores the data from the Follow object in a new database record.
// A violation of the unique (follower_id, followed_id) index is returned as errs.ECONFLICT.
func (fg *followGorm) Create(tx *gorm.DB, follow *domain.Follow) error {
	err := tx.Omit(clause.Associations).Create(follow).Error
	if isUniqueViolation(err) {
		return errs.Errorf(errs.ECONFLICT, errs.MsgAlreadyFollowed)
	}
	return err
}

// Delete permanently deletes the database record of the Follow object.
func (fg *followGorm) Delete(tx *gorm.DB, follow *domain.Follow) error {
	return tx.Delete(&domain.Follow{}, follow.ID).Error
}
