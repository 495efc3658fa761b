package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{ValidationError("bad input"), http.StatusBadRequest},
		{NotFoundError("missing"), http.StatusNotFound},
		{ForbiddenError("not yours"), http.StatusForbidden},
		{ConflictError("already exists"), http.StatusConflict},
		{InternalError("boom", nil), http.StatusInternalServerError},
		{ExternalError("redis down", nil), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Type), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := InternalError("query failed", cause)

	assert.Equal(t, "internal: query failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWithContextChains(t *testing.T) {
	err := NotFoundError("question not found").
		WithContext("question_id", "abc").
		WithContext("actor", "def")

	assert.Equal(t, "abc", err.Context["question_id"])
	assert.Equal(t, "def", err.Context["actor"])
}

func TestAsStructuredError(t *testing.T) {
	original := ForbiddenError("not the author")
	assert.Same(t, original, AsStructuredError(original))

	wrapped := fmt.Errorf("handler: %w", original)
	assert.Same(t, original, AsStructuredError(wrapped))

	plain := AsStructuredError(errors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, TypeInternal, plain.Type)

	assert.Nil(t, AsStructuredError(nil))
}

func TestToResponseOmitsCause(t *testing.T) {
	err := InternalError("query failed", errors.New("secret detail")).
		WithContext("table", "votes")

	resp := err.ToResponse()
	assert.Equal(t, "query failed", resp.Error)
	assert.Equal(t, TypeInternal, resp.Type)
	assert.NotContains(t, resp.Error, "secret detail")
}
