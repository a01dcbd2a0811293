package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDatabaseError_Classification(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
		is     error
	}{
		{name: "duplicate key", cause: errors.New(`ERROR: duplicate key value violates unique constraint "projects_slug_key" (SQLSTATE 23505)`), status: http.StatusConflict, is: ErrAlreadyExists},
		{name: "foreign key", cause: errors.New("violates foreign key constraint (SQLSTATE 23503)"), status: http.StatusBadRequest, is: ErrForeignKeyConstraint},
		{name: "record not found", cause: errors.New("record not found"), status: http.StatusNotFound, is: ErrNotFound},
		{name: "connection", cause: errors.New("failed to connect: dial tcp: connection refused"), status: http.StatusServiceUnavailable, is: ErrDatabaseConnection},
		{name: "generic", cause: errors.New("syntax error"), status: http.StatusInternalServerError, is: ErrDatabaseQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("create", "project", tt.cause)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.ErrorIs(t, err, tt.is)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NewNotFoundError("project x")))
	assert.Equal(t, http.StatusServiceUnavailable, StatusOf(fmt.Errorf("wrapped: %w", NewStoreUnavailableError("object storage"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))
}

func TestSentinelCheckers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("project")))
	assert.True(t, IsNotFound(NewNotFound("project")))
	assert.True(t, IsAlreadyExists(NewAlreadyExists("project asset")))
	assert.True(t, IsAlreadyExists(NewDatabaseError("create", "project", errors.New("duplicate key value"))))
	assert.True(t, IsDatabaseConnectionError(NewDatabaseError("read", "project", errors.New("connect: connection refused"))))
	assert.True(t, IsInvalidFolderInputError(NewInvalidFolderInputError("slug", "!!")))
	assert.True(t, IsStoreUnavailable(NewStoreUnavailableError("database")))
	assert.True(t, IsMissingRequiredFieldError(NewMissingRequiredFieldError("name")))
	assert.False(t, IsNotFound(NewInvalidFieldError("id", "must be a UUID")))
	assert.False(t, IsDatabaseConnectionError(NewNotFound("project")))
}

func TestGetFullError(t *testing.T) {
	inner := NewDatabaseError("read", "project", errors.New("boom"))
	outer := NewInternalErrorWithCause("fetch projects", inner)
	assert.Equal(t, "internal server error: fetch projects -> database query failed: Failed to read project -> boom", outer.GetFullError())
}
