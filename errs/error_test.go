package errs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeAndMessage(t *testing.T) {
	err := Errorf(ENOTFOUND, "Tweet %d not found.", 7)
	assert.Equal(t, ENOTFOUND, ErrorCode(err))
	assert.Equal(t, "Tweet 7 not found.", ErrorMessage(err))

	wrapped := errors.Wrap(err, "loading tweet")
	assert.Equal(t, ENOTFOUND, ErrorCode(wrapped))
	assert.True(t, Is(wrapped, ENOTFOUND))

	plain := errors.New("pq: relation does not exist")
	assert.Equal(t, EINTERNAL, ErrorCode(plain))
	assert.Equal(t, "Internal error.", ErrorMessage(plain))

	assert.Equal(t, "error: code=not_found message=Tweet 7 not found.", err.Error())
	assert.Equal(t, "", ErrorCode(nil))
	assert.False(t, Is(nil, ENOTFOUND))
}

func TestReturnError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		errType string
		message string
	}{
		{"not found", Errorf(ENOTFOUND, "Tweet not found."), http.StatusNotFound, ENOTFOUND, "Tweet not found."},
		{"invalid", Errorf(EINVALID, MsgMediaNotFound), http.StatusBadRequest, EINVALID, MsgMediaNotFound},
		{"forbidden", Errorf(EFORBIDDEN, "nope"), http.StatusForbidden, EFORBIDDEN, "nope"},
		{"conflict", Errorf(ECONFLICT, MsgAlreadyLiked), http.StatusConflict, ECONFLICT, MsgAlreadyLiked},
		{"unauthorized", Errorf(EUNAUTHORIZED, "who"), http.StatusUnauthorized, EUNAUTHORIZED, "who"},
		{"internal", errors.New("duplicate key value violates unique constraint"), http.StatusInternalServerError, EINTERNAL, "Internal error."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/tweets", nil)
			ReturnError(w, r, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var p Payload
			require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
			assert.False(t, p.Result)
			assert.Equal(t, tt.errType, p.ErrorType)
			assert.Equal(t, tt.message, p.ErrorMessage)
		})
	}
}
