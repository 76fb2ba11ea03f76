package crud

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tweetClone/domain"
	"tweetClone/errs"
)

// APIKeyBytes is the number of random bytes of a generated api key.
const APIKeyBytes = 32

// UserService manages Users. It is the identity resolver of the app: the http package
// looks up the caller of every request by its api key through it.
// It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type userGorm struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		userValidator{
			userGorm{
				db: db,
			},
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// ByAPIKey looks up the user owning an api key. The key is compared verbatim.
func (uv *userValidator) ByAPIKey(ctx context.Context, key string) (*domain.User, error) {
	if key == "" {
		return nil, errs.Errorf(errs.ENOTFOUND, errs.MsgUserNotFound)
	}
	return uv.userGorm.ByAPIKey(ctx, key)
}

// Create runs validations needed for creating new User database records.
// It will generate an api key if none is provided.
func (uv *userValidator) Create(ctx context.Context, user *domain.User) error {
	return uv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := runUserValFns(tx, user,
			uv.nameNormalize,
			uv.nameRequired,
			uv.apiKeySetIfUnset,
			uv.apiKeyIsAvail)
		if err != nil {
			return err
		}
		return uv.userGorm.Create(tx, user)
	})
}

// runUserValFns runs any number of functions of type userValFn on the passed in User object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runUserValFns(tx *gorm.DB, user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(tx, user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a transaction and a pointer to a domain.User
// object and returns an error.
type userValFn func(tx *gorm.DB, user *domain.User) error

// nameNormalize trims the whitespaces of the user's name.
func (uv *userValidator) nameNormalize(tx *gorm.DB, user *domain.User) error {
	user.Name = strings.TrimSpace(user.Name)
	return nil
}

// nameRequired makes sure that the name is not the empty string.
func (uv *userValidator) nameRequired(tx *gorm.DB, user *domain.User) error {
	if user.Name == "" {
		return errs.Errorf(errs.EINVALID, "A name is required.")
	}
	return nil
}

// apiKeySetIfUnset creates the user's api key if none is provided.
func (uv *userValidator) apiKeySetIfUnset(tx *gorm.DB, user *domain.User) error {
	if user.APIKey != "" {
		return nil
	}
	key, err := bytesToString(APIKeyBytes)
	if err != nil {
		return errors.Wrap(err, "generating api key")
	}
	user.APIKey = key
	return nil
}

// apiKeyIsAvail makes sure that a provided api key is not yet taken.
func (uv *userValidator) apiKeyIsAvail(tx *gorm.DB, user *domain.User) error {
	taken, err := exists(tx, &domain.User{}, "api_key = ?", user.APIKey)
	if err != nil {
		return err
	}
	if taken {
		return errs.Errorf(errs.ECONFLICT, "This api key is already taken.")
	}
	return nil
}

// withFollows eager-loads the Follows of a user in the order they were created,
// together with the user on the other end of each Follow.
func withFollows(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB {
		return db.Order("follows.id")
	}
	return db.
		Preload("Followers", byID).
		Preload("Followers.Follower").
		Preload("Following", byID).
		Preload("Following.Followed")
}

// ByID retrieves a User database record by ID, along with its Followers and Following.
// If the record doesn't exist, it returns errs.ENOTFOUND.
func (ug *userGorm) ByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	db := withFollows(ug.db.WithContext(ctx)).Where("id = ?", id)
	if err := first(db, &user, errs.MsgUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

// ByAPIKey retrieves a User database record by api key, along with its Followers and Following.
// If the record doesn't exist, it returns errs.ENOTFOUND.
func (ug *userGorm) ByAPIKey(ctx context.Context, key string) (*domain.User, error) {
	var user domain.User
	db := withFollows(ug.db.WithContext(ctx)).Where("api_key = ?", key)
	if err := first(db, &user, errs.MsgUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create stores the data from the User object in a new database record.
func (ug *userGorm) Create(tx *gorm.DB, user *domain.User) error {
	err := tx.Omit(clause.Associations).Create(user).Error
	if isUniqueViolation(err) {
		return errs.Errorf(errs.ECONFLICT, "This api key is already taken.")
	}
	return err
}

// randomBytes generates n random bytes or returns an error. It uses the
// crypto/rand package, so it can be used for things like api keys.
func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// bytesToString generates a byte slice of size nBytes and then returns a
// string that is the base64 URL encoded version of that byte slice.
func bytesToString(nBytes int) (string, error) {
	b, err := randomBytes(nBytes)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
