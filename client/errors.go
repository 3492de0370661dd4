package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrBinaryUpdate is returned when an update of a binary payload is
// requested. Fedora metadata updates go through Update; binary payload
// replacement is not implemented.
var ErrBinaryUpdate = errors.New("put to data objects has not been implemented")

// URIError reports a URI that does not belong to the configured
// repository. Every outbound call validates its target URI this way
// before any network I/O.
type URIError struct {
	// URI is the rejected URI.
	URI string
	// Base is the repository base URI it was checked against.
	Base string
}

func (e *URIError) Error() string {
	return fmt.Sprintf("path mismatch: couldn't parse %s to a path in %s", e.URI, e.Base)
}

// ConflictError reports a deterministic-path create targeting an occupied
// path without force.
type ConflictError struct {
	// URI is the occupied target.
	URI string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("path %s already exists: can't re-create without force", e.URI)
}

// ResourceError reports an HTTP operation that returned an unexpected
// status code.
type ResourceError struct {
	// URI is the target of the failed request.
	URI string
	// StatusCode is the HTTP status returned.
	StatusCode int
	// Reason is the text version of the status code.
	Reason string
	// Body is the raw response body, if any.
	Body []byte
	// Message describes the failed operation.
	Message string
}

func (e *ResourceError) Error() string {
	return e.Message
}

// TransactionError reports a failed transaction control operation.
type TransactionError struct {
	// URI is the transaction endpoint.
	URI string
	// StatusCode is the HTTP status returned.
	StatusCode int
	// Reason is the text version of the status code.
	Reason string
	// Message describes the failed operation.
	Message string
}

func (e *TransactionError) Error() string {
	return e.Message
}

// AsResourceError unwraps err as a *ResourceError.
func AsResourceError(err error) (*ResourceError, bool) {
	var re *ResourceError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsNotFound reports whether err is a ResourceError with HTTP 404.
func IsNotFound(err error) bool {
	re, ok := AsResourceError(err)
	return ok && re.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func newResourceError(uri string, status int, body []byte, message string) *ResourceError {
	return &ResourceError{
		URI:        uri,
		StatusCode: status,
		Reason:     http.StatusText(status),
		Body:       body,
		Message:    message,
	}
}
