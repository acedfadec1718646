package directory

import (
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-ldap/ldap/v3"
	"github.com/hashicorp/go-hclog"
)

// Config holds the full configuration for an Engine. It is constructed by the
// caller, validated once with Validate, and treated as read-only afterwards.
type Config struct {
	// Connection settings
	URLs    []string      // Direct LDAP URLs (ldap:// or ldaps://); overrides Domain
	Domain  string        // Domain for SRV discovery when no URLs are configured
	BaseDN  string        // Base DN for all searches
	Timeout time.Duration `default:"30s"` // Per-connection network timeout

	// Service account used for the bound search connection.
	BindDN       string // DN, UPN, or SAM format
	BindPassword string

	// Kerberos settings for GSSAPI service-account authentication.
	KerberosRealm  string
	KerberosKeytab string // Path to keytab file
	KerberosCCache string // Path to credential cache
	KerberosConfig string // Path to krb5.conf
	KerberosSPN    string // Explicit service principal override

	// TLS settings
	TLSConfig *tls.Config
	UseTLS    bool `default:"true"` // Upgrade plain connections with StartTLS
	SkipTLS   bool // Skip TLS entirely (not recommended)

	// Retry settings, applied to connection establishment only. Failed
	// searches and binds are never retried.
	MaxRetries     int           `default:"3"`
	InitialBackoff time.Duration `default:"500ms"`
	MaxBackoff     time.Duration `default:"30s"`
	BackoffFactor  float64       `default:"2.0"`

	// Query shaping
	SizeLimit     int `default:"400"` // Result ceiling per search
	MinNameLength int `default:"2"`   // Minimum token length for two-part name splitting

	// ExcludeFilter is an opaque filter fragment AND-NOT'd into every person
	// search, e.g. "(sAMAccountName=test-*)" for a test-account convention.
	ExcludeFilter string

	// ExcludedOUs lists organizational units whose entries are dropped from
	// results entirely.
	ExcludedOUs []string

	// ContractorOU names the organizational unit whose members are classified
	// as contractors. Empty disables the classification; the contractor flag
	// is then omitted from normalized entries rather than set to false.
	ContractorOU string

	// Attribute names, overridable for directories with non-standard schemas.
	AccountAttribute string `default:"sAMAccountName"`
	PhoneAttribute   string `default:"telephoneNumber"`
	PhotoAttribute   string `default:"thumbnailPhoto"`
	ExpiresAttribute string `default:"accountExpires"`

	// EnabledAttribute names the enablement flag. The directory only carries
	// the attribute on accounts that are disabled: absence means enabled.
	EnabledAttribute string `default:"enabled"`

	// Logger receives structured operation logs. Defaults to a no-op logger.
	Logger hclog.Logger

	// Dialer overrides connection establishment. When nil the engine dials
	// real LDAP connections using the settings above. Intended for tests.
	Dialer Dialer
}

// Validate applies defaults and checks the configuration for internal
// consistency. It must be called (directly or via NewEngine) before use.
func (c *Config) Validate() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}

	if c.BaseDN == "" {
		return errors.New("base DN must be specified")
	}

	if len(c.URLs) == 0 && c.Domain == "" && c.Dialer == nil {
		return errors.New("either LDAP URLs or a domain must be specified")
	}

	for _, url := range c.URLs {
		if _, err := ParseLDAPURL(url); err != nil {
			return fmt.Errorf("invalid LDAP URL %s: %w", url, err)
		}
	}

	// A malformed exclusion fragment would otherwise surface as a server-side
	// filter error on every person search.
	if c.ExcludeFilter != "" {
		if _, err := ldap.CompileFilter(c.ExcludeFilter); err != nil {
			return fmt.Errorf("invalid exclude filter %q: %w", c.ExcludeFilter, err)
		}
	}

	if c.SizeLimit <= 0 {
		return errors.New("SizeLimit must be positive")
	}

	if c.MinNameLength <= 0 {
		return errors.New("MinNameLength must be positive")
	}

	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if c.MaxRetries < 0 {
		return errors.New("MaxRetries cannot be negative")
	}

	if c.BackoffFactor <= 1.0 {
		return errors.New("BackoffFactor must be greater than 1.0")
	}

	if c.TLSConfig == nil {
		c.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}

	return nil
}

// AuthMethod defines service-account authentication method types.
type AuthMethod int

const (
	AuthMethodSimpleBind AuthMethod = iota // Username/password authentication
	AuthMethodKerberos                     // GSSAPI/Kerberos authentication
	AuthMethodExternal                     // External/certificate authentication
)

// String returns string representation of authentication method.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodSimpleBind:
		return "simple"
	case AuthMethodKerberos:
		return "kerberos"
	case AuthMethodExternal:
		return "external"
	default:
		return "unknown"
	}
}

// GetAuthMethod determines the service-account authentication method from the
// configuration.
func (c *Config) GetAuthMethod() AuthMethod {
	// Kerberos authentication takes precedence
	if c.KerberosRealm != "" && (c.KerberosKeytab != "" || c.BindDN != "") {
		return AuthMethodKerberos
	}

	if c.BindDN != "" && c.BindPassword != "" {
		return AuthMethodSimpleBind
	}

	// External authentication (client certificates)
	if c.TLSConfig != nil && len(c.TLSConfig.Certificates) > 0 {
		return AuthMethodExternal
	}

	return AuthMethodSimpleBind
}

// HasAuthentication checks if any service-account authentication is
// configured. When false, searches run over an anonymous connection.
func (c *Config) HasAuthentication() bool {
	hasPassword := c.BindDN != "" && c.BindPassword != ""
	hasKerberos := c.KerberosRealm != "" && (c.KerberosKeytab != "" || c.BindDN != "")
	hasExternal := c.TLSConfig != nil && len(c.TLSConfig.Certificates) > 0

	return hasPassword || hasKerberos || hasExternal
}
