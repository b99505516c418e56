package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFound("Project")
	assert.Equal(t, "Project not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.True(t, IsNotFound(err))
}

func TestDatabaseErrorHidesCause(t *testing.T) {
	cause := errors.New("pq: relation \"accounts\" does not exist")
	err := NewDatabaseError("get", "account", cause)

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, "database query failed", err.Message())
	assert.NotContains(t, err.Error(), "relation")
	assert.Contains(t, err.GetFullError(), "relation")
	assert.ErrorIs(t, err, ErrDatabaseQuery)
}

func TestUniqueConstraintViolation(t *testing.T) {
	err := NewUniqueConstraintViolationError("account", "email", errors.New("duplicate key"))
	assert.True(t, IsUniqueConstraintViolationError(err))
	assert.Equal(t, "email", err.Field)
	assert.False(t, IsUniqueConstraintViolationError(NewDatabaseError("create", "account", nil)))
}

func TestGetFullErrorNested(t *testing.T) {
	inner := NewInternalError("inner failure")
	outer := NewInternalErrorWithCause("outer failure", inner)
	assert.Equal(t, "outer failure -> inner failure", outer.GetFullError())
}

func TestTokenErrors(t *testing.T) {
	assert.ErrorIs(t, NewMissingTokenError(), ErrMissingToken)
	assert.ErrorIs(t, NewExpiredTokenError(), ErrExpiredToken)
	assert.Equal(t, "authorization", NewInvalidTokenError().Field)
	assert.Equal(t, http.StatusUnauthorized, NewInvalidTokenError().StatusCode)
}

func TestRequestErrors(t *testing.T) {
	cors := NewCORSError("https://evil.example")
	assert.Equal(t, http.StatusForbidden, cors.StatusCode)
	assert.ErrorIs(t, cors, ErrCORSBlocked)
	assert.Equal(t, "request blocked by CORS policy", cors.Message())

	tooLarge := NewMaxBodySizeExceededError(1024)
	assert.Equal(t, http.StatusRequestEntityTooLarge, tooLarge.StatusCode)
	assert.Contains(t, tooLarge.Error(), "1024 bytes")

	invalid := NewInvalidJSONError(errors.New("unexpected EOF"))
	assert.Equal(t, "json", invalid.Field)
	assert.Contains(t, invalid.GetFullError(), "unexpected EOF")
}
