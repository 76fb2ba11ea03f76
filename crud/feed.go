package crud

import (
	"context"

	"gorm.io/gorm"

	"tweetClone/domain"
)

// FeedService assembles the response-ready aggregates of the app: the profile of a user
// and the global feed. It only reads.
// It implements the domain.FeedService interface.
type FeedService struct {
	db    *gorm.DB
	store domain.MediaStore
}

// NewFeedService returns an instance of FeedService. The store is used to build
// the urls of tweet attachments.
func NewFeedService(db *gorm.DB, store domain.MediaStore) *FeedService {
	return &FeedService{
		db:    db,
		store: store,
	}
}

// Ensure the FeedService struct properly implements the domain.FeedService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FeedService = &FeedService{}

// Profile builds the profile of a user whose Followers and Following have been loaded,
// as done by UserService.ByID and UserService.ByAPIKey.
func (fs *FeedService) Profile(user *domain.User) domain.Profile {
	p := domain.Profile{
		ID:        user.ID,
		Name:      user.Name,
		Followers: make([]domain.UserRef, 0, len(user.Followers)),
		Following: make([]domain.UserRef, 0, len(user.Following)),
	}
	for _, f := range user.Followers {
		p.Followers = append(p.Followers, userRef(&f.Follower))
	}
	for _, f := range user.Following {
		p.Following = append(p.Following, userRef(&f.Followed))
	}
	return p
}

// Feed returns every tweet in the order it was created. Authors, media, likes and the
// users of the likes are each loaded with one query for all tweets.
func (fs *FeedService) Feed(ctx context.Context) ([]domain.TweetView, error) {
	var tweets []domain.Tweet
	err := fs.db.WithContext(ctx).
		Preload("Author").
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("media.id") }).
		Preload("Likes", func(db *gorm.DB) *gorm.DB { return db.Order("likes.id") }).
		Preload("Likes.User").
		Order("id").
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}
	feed := make([]domain.TweetView, 0, len(tweets))
	for i := range tweets {
		feed = append(feed, fs.Tweet(&tweets[i]))
	}
	return feed, nil
}

// Tweet builds the aggregate of a single tweet whose Author, Media and Likes have been
// loaded, as done by TweetService.ByID. Only media with an image extension are listed
// as attachments.
func (fs *FeedService) Tweet(tweet *domain.Tweet) domain.TweetView {
	v := domain.TweetView{
		ID:          tweet.ID,
		Content:     tweet.Content,
		Attachments: []string{},
		Author:      userRef(&tweet.Author),
		Likes:       make([]domain.LikeRef, 0, len(tweet.Likes)),
	}
	for i := range tweet.Media {
		if tweet.Media[i].IsImage() {
			v.Attachments = append(v.Attachments, fs.store.URL(tweet.Media[i].Filename))
		}
	}
	for _, l := range tweet.Likes {
		v.Likes = append(v.Likes, domain.LikeRef{UserID: l.UserID, Name: l.User.Name})
	}
	return v
}

func userRef(user *domain.User) domain.UserRef {
	return domain.UserRef{ID: user.ID, Name: user.Name}
}
