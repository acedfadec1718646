package directory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	cause := errors.New("underlying")

	tests := []struct {
		name        string
		err         error
		isConn      bool
		isSearch    bool
		isAuth      bool
		isNotFound  bool
		wantMessage string
	}{
		{
			name:        "connection error",
			err:         NewConnectionError("dial failed", cause),
			isConn:      true,
			wantMessage: "dial failed: underlying",
		},
		{
			name:        "search error with filter",
			err:         NewSearchError("search failed", "(cn=x)", cause),
			isSearch:    true,
			wantMessage: "search failed (filter (cn=x)): underlying",
		},
		{
			name:        "search error without cause",
			err:         NewSearchError("query cannot be empty", "", nil),
			isSearch:    true,
			wantMessage: "query cannot be empty",
		},
		{
			name:        "auth error",
			err:         NewAuthError("invalid credentials", cause),
			isAuth:      true,
			wantMessage: "invalid credentials: underlying",
		},
		{
			name:        "not found error",
			err:         NewNotFoundError("jdoe"),
			isNotFound:  true,
			wantMessage: "account not found: jdoe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isConn, IsConnectionError(tt.err))
			assert.Equal(t, tt.isSearch, IsSearchError(tt.err))
			assert.Equal(t, tt.isAuth, IsAuthError(tt.err))
			assert.Equal(t, tt.isNotFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.wantMessage, tt.err.Error())
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("underlying")

	assert.ErrorIs(t, NewConnectionError("dial failed", cause), cause)
	assert.ErrorIs(t, NewSearchError("search failed", "(cn=x)", cause), cause)
	assert.ErrorIs(t, NewAuthError("invalid credentials", cause), cause)

	// Classification survives further wrapping.
	wrapped := fmt.Errorf("login: %w", NewAuthError("invalid credentials", cause))
	assert.True(t, IsAuthError(wrapped))
	assert.False(t, IsConnectionError(wrapped))
}

func TestIsCredentialError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "invalid credentials",
			err:  ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("bad password")),
			want: true,
		},
		{
			name: "inappropriate authentication",
			err:  ldap.NewError(ldap.LDAPResultInappropriateAuthentication, errors.New("anon bind")),
			want: true,
		},
		{
			name: "operations error is not a credential failure",
			err:  ldap.NewError(ldap.LDAPResultOperationsError, errors.New("server")),
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isCredentialError(tt.err))
		})
	}
}

func TestIsSizeLimitError(t *testing.T) {
	assert.True(t, isSizeLimitError(ldap.NewError(ldap.LDAPResultSizeLimitExceeded, errors.New("limit"))))
	assert.False(t, isSizeLimitError(ldap.NewError(ldap.LDAPResultOperationsError, errors.New("other"))))
	assert.False(t, isSizeLimitError(errors.New("plain")))
}
