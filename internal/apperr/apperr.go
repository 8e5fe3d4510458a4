// Package apperr holds the error taxonomy shared by every HTTP-facing service
// and its mapping onto status codes.
package apperr

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/saulo-duarte/natije-api/internal/config"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrUnauthorized = errors.New("authentication credentials were not provided")
	ErrConflict     = errors.New("conflict")
)

// ValidationError carries field-level messages. A ValidationError built with
// Conflict also matches ErrConflict.
type ValidationError struct {
	Fields map[string][]string
	cause  error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return e.cause }

func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

// OrNil returns nil when no field failed, so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func Invalid(field, msg string) *ValidationError {
	return (&ValidationError{}).Add(field, msg)
}

func Conflict(msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{"message": {msg}}, cause: ErrConflict}
}

type detail struct {
	Detail string `json:"detail"`
}

// Write maps err onto a JSON response. Unknown errors are logged and hidden.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		config.JSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, ErrUnauthorized):
		config.JSON(w, http.StatusUnauthorized, detail{Detail: err.Error()})
	case errors.Is(err, ErrForbidden):
		config.JSON(w, http.StatusForbidden, detail{Detail: err.Error()})
	case errors.Is(err, ErrNotFound):
		config.JSON(w, http.StatusNotFound, detail{Detail: err.Error()})
	default:
		config.WithContext(r.Context()).WithError(err).Error("Unhandled error")
		config.JSON(w, http.StatusInternalServerError, detail{Detail: "internal server error"})
	}
}
