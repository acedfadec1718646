package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/hashicorp/go-hclog"
)

// ldapDialer dials real LDAP connections and authenticates them as the
// configured service account. It implements Dialer. A fresh connection is
// dialed for every operation; there is no pooling in this design.
type ldapDialer struct {
	cfg       *Config
	discovery *SRVDiscovery
	logger    hclog.Logger
}

func newLDAPDialer(cfg *Config) *ldapDialer {
	return &ldapDialer{
		cfg:       cfg,
		discovery: NewSRVDiscovery(cfg.Logger),
		logger:    cfg.Logger,
	}
}

// Dial establishes and authenticates a connection, trying each known server
// in preference order with bounded retry and exponential backoff.
func (d *ldapDialer) Dial(ctx context.Context) (Conn, error) {
	servers, err := d.resolveServers(ctx)
	if err != nil {
		return nil, NewConnectionError("server discovery failed", err)
	}

	var lastErr error
	backoff := d.cfg.InitialBackoff

	for attempt := 0; attempt <= d.cfg.MaxRetries; attempt++ {
		for _, server := range servers {
			conn, err := d.dialServer(server)
			if err != nil {
				d.logger.Debug("connection attempt failed",
					"server", ServerInfoToURL(server), "attempt", attempt+1, "error", err.Error())
				lastErr = err
				continue
			}
			return conn, nil
		}

		// All servers failed, wait before retrying
		if attempt < d.cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, NewConnectionError("dial cancelled", ctx.Err())
			case <-time.After(backoff):
				backoff = min(time.Duration(float64(backoff)*d.cfg.BackoffFactor), d.cfg.MaxBackoff)
			}
		}
	}

	return nil, NewConnectionError("failed to connect after retries", lastErr)
}

// resolveServers produces the candidate server list from explicit URLs or SRV
// discovery.
func (d *ldapDialer) resolveServers(ctx context.Context) ([]*ServerInfo, error) {
	if len(d.cfg.URLs) > 0 {
		servers := make([]*ServerInfo, 0, len(d.cfg.URLs))
		for _, url := range d.cfg.URLs {
			server, err := ParseLDAPURL(url)
			if err != nil {
				return nil, fmt.Errorf("invalid LDAP URL %s: %w", url, err)
			}
			servers = append(servers, server)
		}
		return servers, nil
	}

	if d.cfg.Domain != "" {
		discoverCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
		return d.discovery.DiscoverServers(discoverCtx, d.cfg.Domain)
	}

	return nil, errors.New("either domain or LDAP URLs must be specified")
}

// dialServer connects to a single server and authenticates the connection.
func (d *ldapDialer) dialServer(server *ServerInfo) (Conn, error) {
	url := ServerInfoToURL(server)

	var conn *ldap.Conn
	var err error

	if server.UseTLS {
		// Direct TLS connection (LDAPS)
		conn, err = ldap.DialURL(url, ldap.DialWithTLSConfig(d.cfg.TLSConfig))
	} else {
		conn, err = ldap.DialURL(url)
		if err == nil && d.cfg.UseTLS && !d.cfg.SkipTLS {
			// Upgrade to TLS using StartTLS
			err = conn.StartTLS(d.cfg.TLSConfig)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetTimeout(d.cfg.Timeout)

	if d.cfg.HasAuthentication() {
		if err := d.authenticate(conn, server); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to authenticate connection to %s: %w", url, err)
		}
	}

	return conn, nil
}

// authenticate binds the connection as the configured service account.
func (d *ldapDialer) authenticate(conn *ldap.Conn, server *ServerInfo) error {
	authMethod := d.cfg.GetAuthMethod()

	switch authMethod {
	case AuthMethodSimpleBind:
		if d.cfg.BindDN == "" {
			return fmt.Errorf("bind DN is required for simple bind authentication")
		}
		return conn.Bind(d.cfg.BindDN, d.cfg.BindPassword)
	case AuthMethodKerberos:
		return performKerberosAuth(conn, d.cfg, server)
	case AuthMethodExternal:
		// Authentication happened at the TLS layer; an empty bind completes
		// the LDAP side.
		return conn.Bind("", "")
	default:
		return fmt.Errorf("unsupported authentication method: %s", authMethod.String())
	}
}
