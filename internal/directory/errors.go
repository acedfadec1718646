package directory

import (
	"errors"

	"github.com/go-ldap/ldap/v3"
)

// The error taxonomy mirrors the operations that can fail: establishing or
// binding the service connection (ConnectionError), executing a search
// (SearchError), verifying a login credential (AuthError), and looking up an
// account that does not exist (NotFoundError). None of these are retried
// internally; retry policy belongs to the caller.

// ConnectionError represents a transport failure or a failed bind as the
// configured service account. Both present to callers as "service
// unavailable".
type ConnectionError struct {
	message string
	cause   error
}

func (e *ConnectionError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *ConnectionError) Unwrap() error {
	return e.cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) *ConnectionError {
	return &ConnectionError{message: message, cause: cause}
}

// SearchError represents a malformed filter or a server-side search failure.
type SearchError struct {
	message string
	filter  string
	cause   error
}

func (e *SearchError) Error() string {
	msg := e.message
	if e.filter != "" {
		msg += " (filter " + e.filter + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *SearchError) Unwrap() error {
	return e.cause
}

// NewSearchError creates a new search error. The filter may be empty.
func NewSearchError(message, filter string, cause error) *SearchError {
	return &SearchError{message: message, filter: filter, cause: cause}
}

// AuthError represents a failed credential-verifying bind. Directory servers
// do not reliably distinguish "identity not found" from "credential rejected"
// for security reasons, and neither does this error.
type AuthError struct {
	message string
	cause   error
}

func (e *AuthError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *AuthError) Unwrap() error {
	return e.cause
}

// NewAuthError creates a new authentication error.
func NewAuthError(message string, cause error) *AuthError {
	return &AuthError{message: message, cause: cause}
}

// NotFoundError indicates that a lookup returned zero entries where exactly
// one was expected.
type NotFoundError struct {
	account string
}

func (e *NotFoundError) Error() string {
	return "account not found: " + e.account
}

// NewNotFoundError creates a new not-found error for the given account name.
func NewNotFoundError(account string) *NotFoundError {
	return &NotFoundError{account: account}
}

// IsConnectionError checks if an error is a ConnectionError.
func IsConnectionError(err error) bool {
	var e *ConnectionError
	return errors.As(err, &e)
}

// IsSearchError checks if an error is a SearchError.
func IsSearchError(err error) bool {
	var e *SearchError
	return errors.As(err, &e)
}

// IsAuthError checks if an error is an AuthError.
func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// isCredentialError reports whether a raw LDAP error indicates that the
// presented credentials were rejected rather than a transport problem.
func isCredentialError(err error) bool {
	return ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) ||
		ldap.IsErrorWithCode(err, ldap.LDAPResultInappropriateAuthentication) ||
		ldap.IsErrorWithCode(err, ldap.LDAPResultStrongAuthRequired)
}

// isSizeLimitError reports whether a raw LDAP error is the server signalling
// that the result ceiling was reached. The entries accumulated before the
// ceiling are still usable.
func isSizeLimitError(err error) bool {
	return ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded)
}
