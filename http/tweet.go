package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"tweetClone/auth"
	"tweetClone/domain"
	"tweetClone/errs"
)

// registerTweetRoutes is a helper for registering all Tweet routes.
func (s *Server) registerTweetRoutes(r *mux.Router) {
	// Create a new tweet, optionally attaching previously uploaded media.
	r.HandleFunc("/tweets", s.requireAuth(s.handleCreateTweet)).Methods("POST")

	// Get the global feed.
	r.HandleFunc("/tweets", s.optionalAuth(s.handleGetFeed)).Methods("GET")

	// Get a single tweet.
	r.HandleFunc("/tweets/{id:[0-9]+}", s.optionalAuth(s.handleGetTweet)).Methods("GET")

	// Delete one of the caller's tweets.
	r.HandleFunc("/tweets/{id:[0-9]+}", s.requireAuth(s.handleDeleteTweet)).Methods("DELETE")
}

// createTweetRequest is the json body of "POST /api/tweets".
type createTweetRequest struct {
	TweetData     string `json:"tweet_data" validate:"required"`
	TweetMediaIDs []int  `json:"tweet_media_ids" validate:"omitempty,dive,gt=0"`
}

// handleCreateTweet handles the route "POST /api/tweets".
// It creates a new tweet of the caller and returns its id.
func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	// Parse the request's json body.
	var req createTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid tweet: %s", validationMessage(err)))
		return
	}

	// Create the tweet on behalf of the caller.
	tweet := domain.Tweet{
		Content:  req.TweetData,
		AuthorID: auth.GetUser(r.Context()).ID,
	}
	if err := s.ts.Create(r.Context(), &tweet, req.TweetMediaIDs); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.respond(w, r, map[string]interface{}{"result": true, "tweet_id": tweet.ID})
}

// handleGetFeed handles the route "GET /api/tweets".
// It returns every tweet along with its author, image attachments and likes.
func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.feed.Feed(r.Context())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.respond(w, r, map[string]interface{}{"result": true, "tweets": feed})
}

// handleGetTweet handles the route "GET /api/tweets/{id}".
// It returns a tweet in the same form as the feed does.
func (s *Server) handleGetTweet(w http.ResponseWriter, r *http.Request) {
	// Parse the tweet ID from the url.
	id, err := pathID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Fetch the tweet along with its author, media and likes.
	tweet, err := s.ts.ByID(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.respond(w, r, map[string]interface{}{"result": true, "tweet": s.feed.Tweet(tweet)})
}

// handleDeleteTweet handles the route "DELETE /api/tweets/{id}".
// Only the author of a tweet may delete it.
func (s *Server) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	// Parse the tweet ID from the url.
	id, err := pathID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Delete the tweet, its likes, and detach its media.
	if err := s.ts.Delete(r.Context(), id, auth.GetUser(r.Context()).ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.respond(w, r, map[string]interface{}{"result": true})
}
