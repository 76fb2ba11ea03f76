package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"tweetClone/auth"
	"tweetClone/errs"
)

// registerUserRoutes is a helper for registering all User routes.
func (s *Server) registerUserRoutes(r *mux.Router) {
	// Get the profile of the caller.
	r.HandleFunc("/users/me", s.requireAuth(s.handleGetMe)).Methods("GET")

	// Get the profile of a specific user.
	r.HandleFunc("/users/{id:[0-9]+}", s.optionalAuth(s.handleGetProfile)).Methods("GET")
}

// handleGetMe handles the route "GET /api/users/me".
// It returns the caller's profile, including followers and followed users.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	s.respond(w, r, map[string]interface{}{"result": true, "user": s.feed.Profile(user)})
}

// handleGetProfile handles the route "GET /api/users/{id}".
// It returns the requested user's profile, including followers and followed users.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	// Parse the User ID from the url.
	id, err := pathID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Fetch the user along with its follows.
	user, err := s.us.ByID(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.respond(w, r, map[string]interface{}{"result": true, "user": s.feed.Profile(user)})
}
