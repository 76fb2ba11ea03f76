package http

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"tweetClone/auth"
	"tweetClone/domain"
	"tweetClone/errs"
)

// multipartOverhead is the room left for multipart headers and boundaries on top of
// the maximum upload size.
const multipartOverhead = 1 << 20

// registerMediaRoutes is a helper for registering all Media routes.
func (s *Server) registerMediaRoutes(r *mux.Router) {
	// Upload a file to attach it to a tweet later on.
	r.HandleFunc("/medias", s.requireAuth(s.handleUploadMedia)).Methods("POST")

	// Get the record of an uploaded file.
	r.HandleFunc("/medias/{id:[0-9]+}", s.optionalAuth(s.handleGetMedia)).Methods("GET")
}

// registerMediaFileRoutes serves the files of a local media store.
func (s *Server) registerMediaFileRoutes(r *mux.Router) {
	r.HandleFunc("/media/{filename}", s.handleGetMediaFile).Methods("GET", "HEAD")
}

// handleUploadMedia handles the route "POST /api/medias".
// It streams the multipart field "file" into the media store and returns the id of the new Media.
func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	// Limit the size of the request body.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize+multipartOverhead)

	// Find the file part of the multipart body.
	mr, err := r.MultipartReader()
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid multipart body."))
		return
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid multipart body."))
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}

		// Store the file and its Media record.
		media, err := s.ms.Create(r.Context(), &domain.Upload{
			UserID:   auth.GetUser(r.Context()).ID,
			Filename: part.FileName(),
			Size:     -1,
			File:     part,
		})
		part.Close()
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		s.respond(w, r, map[string]interface{}{"result": true, "media_id": media.ID})
		return
	}
	errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "A file is required."))
}

// handleGetMedia handles the route "GET /api/medias/{id}".
// It returns the stored name, size, digest and owner of an uploaded file,
// and the tweet it is attached to, if any.
func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	media, err := s.ms.ByID(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.respond(w, r, map[string]interface{}{"result": true, "media": media})
}

// handleGetMediaFile handles the route "GET /media/{filename}".
func (s *Server) handleGetMediaFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		errs.ReturnError(w, r, errs.Errorf(errs.ENOTFOUND, "Media not found."))
		return
	}
	http.ServeFile(w, r, filepath.Join(s.mediaDir, name))
}
