package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name   string
		err    error
		kind   Kind
		status int
	}{
		{"validation", Validation("No file uploaded"), KindValidation, http.StatusBadRequest},
		{"not found", NotFound("Post not found", cause), KindNotFound, http.StatusNotFound},
		{"unavailable", Unavailable("store down", cause), KindUnavailable, http.StatusInternalServerError},
		{"internal", Internal("bad json", cause), KindInternal, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("create post: %w", Validation("Title is required")), KindValidation, http.StatusBadRequest},
		{"plain", cause, KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(KindOf(tt.err)))
		})
	}
}

func TestMessageAndDetails(t *testing.T) {
	cause := errors.New("AccessDenied")
	err := fmt.Errorf("upload: %w", Unavailable("Error uploading file to S3", cause))

	assert.Equal(t, "Error uploading file to S3", Message(err, "fallback"))
	assert.Equal(t, "AccessDenied", Details(err))
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "fallback", Message(cause, "fallback"))
	assert.Equal(t, "AccessDenied", Details(cause))
	assert.Empty(t, Details(Validation("missing")))
	assert.Empty(t, Details(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unavailable", KindUnavailable.String())
	assert.Equal(t, "internal", KindInternal.String())
}
