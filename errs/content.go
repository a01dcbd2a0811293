package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Content & Asset Errors
var (
	ErrInvalidFolderInput = errors.New("invalid asset folder input")
	ErrStoreUnavailable   = errors.New("content store unavailable")
	ErrObjectStorage      = errors.New("object storage failure")
)

func NewInvalidFolderInputError(field, value string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidFolderInput,
		Details:    fmt.Sprintf("%s %q has no usable characters", field, value),
		Field:      field,
	}
}

// NewStoreUnavailableError reports that a write or privileged read needed a
// backend that is not configured.
func NewStoreUnavailableError(store string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrStoreUnavailable,
		Details:    fmt.Sprintf("%s is not configured", store),
	}
}

func NewObjectStorageError(operation, key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrObjectStorage,
		Details:    fmt.Sprintf("Failed to %s object %s", operation, key),
		Cause:      cause,
	}
}

func IsInvalidFolderInputError(err error) bool {
	return errors.Is(err, ErrInvalidFolderInput)
}

func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

func IsObjectStorageError(err error) bool {
	return errors.Is(err, ErrObjectStorage)
}
