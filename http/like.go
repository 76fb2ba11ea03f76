package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"tweetClone/auth"
	"tweetClone/errs"
)

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Create a new like for a tweet (Like a tweet).
	r.HandleFunc("/tweets/{id:[0-9]+}/likes", s.requireAuth(s.handleCreateLike)).Methods("POST")

	// Delete an existing like of a tweet (Unlike a tweet).
	r.HandleFunc("/tweets/{id:[0-9]+}/likes", s.requireAuth(s.handleDeleteLike)).Methods("DELETE")
}

// handleCreateLike handles the route "POST /api/tweets/{id}/likes".
// It reads the tweet ID from the url and creates a new Like of the caller.
func (s *Server) handleCreateLike(w http.ResponseWriter, r *http.Request) {
	// Parse the tweet ID from the url.
	id, err := pathID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Create a new Like database record.
	if err := s.ls.Create(r.Context(), auth.GetUser(r.Context()).ID, id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.respond(w, r, map[string]interface{}{"result": true})
}

// handleDeleteLike handles the route "DELETE /api/tweets/{id}/likes".
// It reads the tweet ID from the url and permanently deletes the caller's Like of that tweet.
func (s *Server) handleDeleteLike(w http.ResponseWriter, r *http.Request) {
	// Parse the tweet ID from the url.
	id, err := pathID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Delete the like.
	if err := s.ls.Delete(r.Context(), auth.GetUser(r.Context()).ID, id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.respond(w, r, map[string]interface{}{"result": true})
}
