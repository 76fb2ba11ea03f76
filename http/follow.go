package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"tweetClone/auth"
	"tweetClone/errs"
)

// registerFollowRoutes is a helper for registering all Follow routes.
func (s *Server) registerFollowRoutes(r *mux.Router) {
	r.HandleFunc("/users/{id:[0-9]+}/follow", s.requireAuth(s.handleCreateFollow)).Methods("POST")
	r.HandleFunc("/users/{id:[0-9]+}/follow", s.requireAuth(s.handleDeleteFollow)).Methods("DELETE")
}

// handleCreateFollow handles the route "POST /api/users/{id}/follow".
// The caller starts following the user with the ID from the url.
func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	followedID, err := pathID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.fs.Create(r.Context(), auth.GetUser(r.Context()).ID, followedID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.respond(w, r, map[string]interface{}{"result": true})
}

// handleDeleteFollow handles the route "DELETE /api/users/{id}/follow".
// The caller stops following the user with the ID from the url.
func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
	followedID, err := pathID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.fs.Delete(r.Context(), auth.GetUser(r.Context()).ID, followedID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.respond(w, r, map[string]interface{}{"result": true})
}
