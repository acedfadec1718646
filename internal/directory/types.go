package directory

import (
	"context"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// Conn is the subset of LDAP connection operations the engine performs. It is
// satisfied by *ldap.Conn; tests substitute fakes.
type Conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	SetTimeout(d time.Duration)
	Close() error
}

// Dialer produces connections that are already authenticated as the
// configured service account (or anonymous when no authentication is
// configured). Every search and login acquires its own connection through a
// Dialer and closes it when the operation completes.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// DialerFunc makes it easy to use a func as a Dialer.
type DialerFunc func(ctx context.Context) (Conn, error)

func (f DialerFunc) Dial(ctx context.Context) (Conn, error) {
	return f(ctx)
}

// AccountType is the closed set of directory object subtypes carried in the
// sAMAccountType attribute. The integer values are the directory's own codes
// and are retained only for interop with raw entries.
type AccountType int64

const (
	AccountTypeDomainObject     AccountType = 0x00000000
	AccountTypeGroup            AccountType = 0x10000000
	AccountTypeNonSecurityGroup AccountType = 0x10000001
	AccountTypeAlias            AccountType = 0x20000000
	AccountTypeNonSecurityAlias AccountType = 0x20000001
	AccountTypeUser             AccountType = 0x30000000
	AccountTypeMachine          AccountType = 0x30000001
	AccountTypeTrust            AccountType = 0x30000002
	AccountTypeAppBasicGroup    AccountType = 0x40000000
	AccountTypeAppQueryGroup    AccountType = 0x40000001
)

// String returns the directory schema name for the account type.
func (t AccountType) String() string {
	switch t {
	case AccountTypeDomainObject:
		return "SAM_DOMAIN_OBJECT"
	case AccountTypeGroup:
		return "SAM_GROUP_OBJECT"
	case AccountTypeNonSecurityGroup:
		return "SAM_NON_SECURITY_GROUP_OBJECT"
	case AccountTypeAlias:
		return "SAM_ALIAS_OBJECT"
	case AccountTypeNonSecurityAlias:
		return "SAM_NON_SECURITY_ALIAS_OBJECT"
	case AccountTypeUser:
		return "SAM_USER_OBJECT"
	case AccountTypeMachine:
		return "SAM_MACHINE_ACCOUNT"
	case AccountTypeTrust:
		return "SAM_TRUST_ACCOUNT"
	case AccountTypeAppBasicGroup:
		return "SAM_APP_BASIC_GROUP"
	case AccountTypeAppQueryGroup:
		return "SAM_APP_QUERY_GROUP"
	default:
		return "unknown"
	}
}

// AccountTypeFromCode maps a raw sAMAccountType value to its AccountType.
// The second return value is false for codes outside the known set.
func AccountTypeFromCode(code int64) (AccountType, bool) {
	t := AccountType(code)
	switch t {
	case AccountTypeDomainObject,
		AccountTypeGroup,
		AccountTypeNonSecurityGroup,
		AccountTypeAlias,
		AccountTypeNonSecurityAlias,
		AccountTypeUser,
		AccountTypeMachine,
		AccountTypeTrust,
		AccountTypeAppBasicGroup,
		AccountTypeAppQueryGroup:
		return t, true
	default:
		return 0, false
	}
}
