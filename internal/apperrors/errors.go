package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrSource       = errors.New("review source failed")
	ErrModelInit    = errors.New("sentiment model failed to load")
	ErrRender       = errors.New("chart rendering failed")
	ErrNotFound     = errors.New("not found")
)

// InputError is returned for caller mistakes such as a missing product name.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// SourceError wraps a failed call to the upstream review source. StatusCode is
// zero for transport failures.
type SourceError struct {
	Source     string
	StatusCode int
	Message    string
	Err        error
}

func (e *SourceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s request failed: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s request failed with status %d", e.Source, e.StatusCode)
}

func (e *SourceError) Unwrap() error { return e.Err }

func (e *SourceError) Is(target error) bool {
	return target == ErrSource
}

type ModelInitError struct {
	Backend string
	Model   string
	Err     error
}

func (e *ModelInitError) Error() string {
	return fmt.Sprintf("failed to load %s sentiment model %q: %v", e.Backend, e.Model, e.Err)
}

func (e *ModelInitError) Unwrap() error { return e.Err }

func (e *ModelInitError) Is(target error) bool {
	return target == ErrModelInit
}

type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render chart: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}

// HTTPStatus maps an error onto the client/server distinction used at the
// service boundary.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
