package http

import (
	"net/http"

	"tweetClone/auth"
	"tweetClone/domain"
	"tweetClone/errs"
)

// DefaultAPIKeyHeader is the request header carrying the caller's api key.
const DefaultAPIKeyHeader = "api-key"

// Identifier resolves the caller of a request. An unknown or missing caller
// is reported as errs.EUNAUTHORIZED.
type Identifier interface {
	Identify(r *http.Request) (*domain.User, error)
}

// IdentifierFunc adapts an ordinary function to the Identifier interface.
type IdentifierFunc func(r *http.Request) (*domain.User, error)

// Identify calls f(r).
func (f IdentifierFunc) Identify(r *http.Request) (*domain.User, error) {
	return f(r)
}

// APIKeyIdentifier resolves callers by the api key they send in a request header.
type APIKeyIdentifier struct {
	users  domain.UserService
	header string
}

// NewAPIKeyIdentifier returns an APIKeyIdentifier looking up the key in the given header.
// An empty header name means DefaultAPIKeyHeader.
func NewAPIKeyIdentifier(users domain.UserService, header string) *APIKeyIdentifier {
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	return &APIKeyIdentifier{users: users, header: header}
}

// Identify looks up the user owning the request's api key.
func (a *APIKeyIdentifier) Identify(r *http.Request) (*domain.User, error) {
	key := r.Header.Get(a.header)
	if key == "" {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "Missing api key.")
	}
	user, err := a.users.ByAPIKey(r.Context(), key)
	if errs.Is(err, errs.ENOTFOUND) {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid api key.")
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// requireAuth resolves the caller and puts it into the request context.
// Requests without a resolvable caller are answered with errs.EUNAUTHORIZED.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.identify(r)
		if err == nil && user == nil {
			err = errs.Errorf(errs.EUNAUTHORIZED, "Missing api key.")
		}
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		next(w, r.WithContext(auth.SetUser(r.Context(), user)))
	}
}

// optionalAuth resolves the caller if possible, but lets anonymous requests pass.
func (s *Server) optionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.identify(r)
		if err != nil && !errs.Is(err, errs.EUNAUTHORIZED) {
			errs.ReturnError(w, r, err)
			return
		}
		if user != nil {
			r = r.WithContext(auth.SetUser(r.Context(), user))
		}
		next(w, r)
	}
}

func (s *Server) identify(r *http.Request) (*domain.User, error) {
	if s.ids == nil {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "Missing api key.")
	}
	return s.ids.Identify(r)
}
