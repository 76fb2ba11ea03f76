package errs

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// codes maps application error codes to http status codes.
var codes = map[string]int{
	ECONFLICT:     http.StatusConflict,
	EFORBIDDEN:    http.StatusForbidden,
	EINTERNAL:     http.StatusInternalServerError,
	EINVALID:      http.StatusBadRequest,
	ENOTFOUND:     http.StatusNotFound,
	EUNAUTHORIZED: http.StatusUnauthorized,
}

// Payload is the json body of every failed request.
type Payload struct {
	Result       bool   `json:"result"`
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
}

// StatusCode returns the http status code belonging to an application error code.
func StatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// ReturnError writes an error payload to the client. Internal errors are logged
// and replaced by a generic message, so store-level error text never leaves the server.
func ReturnError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := ErrorCode(err), ErrorMessage(err)
	if code == EINTERNAL {
		LogError(r, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(code))
	payload := Payload{Result: false, ErrorType: code, ErrorMessage: message}
	if err := json.NewEncoder(w).Encode(&payload); err != nil {
		LogError(r, err)
	}
}

// LogError logs an error with the request's logger (see zerolog's hlog), falling back
// to the global no-op logger when none is attached to the request context.
func LogError(r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
}
