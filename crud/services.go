package crud

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tweetClone/domain"
)

// A ServicesConfig is any function that takes in a pointer to a Services
// object and returns an error. It's basically just wrapping the constructor
// method of any given crud service. It exists to be able to easily create
// the crud services using functional options in main.go.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud services.
// The crud services all share the database connection and the logger provided by Services.
type Services struct {
	db     *gorm.DB
	log    *zerolog.Logger
	User   *UserService
	Tweet  *TweetService
	Media  *MediaService
	Follow *FollowService
	Like   *LikeService
	Feed   *FeedService
}

// NewServices returns a new Services object, containing any crud services
// it's told to create by one of the passed in ServicesConfig functions.
// It shares the passed in database connection with any crud service it creates.
// Unless WithLogger is passed first, the services log nothing.
func NewServices(db *gorm.DB, cfgs ...ServicesConfig) (*Services, error) {
	nop := zerolog.Nop()
	s := Services{
		db:  db,
		log: &nop,
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// WithLogger sets the logger of the services created after it.
func WithLogger(log *zerolog.Logger) ServicesConfig {
	return func(s *Services) error {
		s.log = log
		return nil
	}
}

// WithUser wraps the constructor of UserService, NewUserService.
func WithUser() ServicesConfig {
	return func(s *Services) error {
		s.User = NewUserService(s.db)
		return nil
	}
}

// WithTweet wraps the constructor of TweetService, NewTweetService.
func WithTweet() ServicesConfig {
	return func(s *Services) error {
		s.Tweet = NewTweetService(s.db, s.log)
		return nil
	}
}

// WithMedia wraps the constructor of MediaService, NewMediaService.
func WithMedia(store domain.MediaStore, maxSize int64) ServicesConfig {
	return func(s *Services) error {
		s.Media = NewMediaService(s.db, store, maxSize, s.log)
		return nil
	}
}

// WithFollow wraps the constructor of FollowService, NewFollowService.
func WithFollow() ServicesConfig {
	return func(s *Services) error {
		s.Follow = NewFollowService(s.db)
		return nil
	}
}

// WithLike wraps the constructor of LikeService, NewLikeService.
func WithLike() ServicesConfig {
	return func(s *Services) error {
		s.Like = NewLikeService(s.db)
		return nil
	}
}

// WithFeed wraps the constructor of FeedService, NewFeedService.
func WithFeed(store domain.MediaStore) ServicesConfig {
	return func(s *Services) error {
		s.Feed = NewFeedService(s.db, store)
		return nil
	}
}
