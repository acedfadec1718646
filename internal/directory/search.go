package directory

import (
	"context"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/hashicorp/go-hclog"
)

// Engine executes directory searches and login validation. All operations are
// request-scoped: each dials its own service-bound connection and closes it
// on completion. An Engine is safe for concurrent use; its configuration is
// read-only after construction.
type Engine struct {
	cfg        *Config
	filters    *FilterBuilder
	normalizer *EntryNormalizer
	dialer     Dialer
	logger     hclog.Logger
}

// NewEngine validates the configuration and creates an engine.
func NewEngine(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = newLDAPDialer(cfg)
	}

	return &Engine{
		cfg:        cfg,
		filters:    NewFilterBuilder(cfg),
		normalizer: NewEntryNormalizer(cfg),
		dialer:     dialer,
		logger:     cfg.Logger,
	}, nil
}

// defaultAttributes is the attribute set requested when the caller does not
// name one.
func (e *Engine) defaultAttributes() []string {
	return []string{
		"objectGUID", "distinguishedName", "objectSid", "sAMAccountType",
		e.cfg.AccountAttribute, "userPrincipalName", "cn",
		"displayName", "givenName", "sn", "description",
		"mail", e.cfg.PhoneAttribute, "mobile", e.cfg.PhotoAttribute,
		"title", "department", "physicalDeliveryOfficeName",
		e.cfg.ExpiresAttribute, e.cfg.EnabledAttribute,
	}
}

// Search executes a filter against the directory and returns normalized
// entries in server emission order. Results are all-or-nothing: any failure
// mid-stream discards accumulated rows and fails the call.
func (e *Engine) Search(ctx context.Context, filter string, attributes []string) ([]*Entry, error) {
	start := time.Now()

	if len(attributes) == 0 {
		attributes = e.defaultAttributes()
	}

	conn, err := e.dialer.Dial(ctx)
	if err != nil {
		e.logger.Error("failed to acquire directory connection", "error", err.Error())
		if IsConnectionError(err) {
			return nil, err
		}
		return nil, NewConnectionError("failed to acquire directory connection", err)
	}
	defer conn.Close()

	req := ldap.NewSearchRequest(
		e.cfg.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		e.cfg.SizeLimit,
		int(e.cfg.Timeout.Seconds()),
		false, // TypesOnly
		filter,
		attributes,
		nil, // Controls
	)

	result, err := conn.Search(req)
	if err != nil {
		// The server reports reaching the result ceiling as an error while
		// still returning the rows it found; those rows are valid results.
		if !(isSizeLimitError(err) && result != nil) {
			e.logger.Error("search failed", "filter", filter, "error", err.Error())
			return nil, NewSearchError("search failed", filter, err)
		}
	}

	entries := make([]*Entry, 0, len(result.Entries))
	for _, raw := range result.Entries {
		if entry := e.normalizer.Normalize(raw, result.Controls); entry != nil {
			entries = append(entries, entry)
		}
	}

	e.logger.Debug("search completed",
		"filter", filter,
		"entries_found", len(entries),
		"entries_excluded", len(result.Entries)-len(entries),
		"duration_ms", time.Since(start).Milliseconds())

	return entries, nil
}

// FindUser looks up accounts by exact account name. Empty input returns an
// empty result without touching the network.
func (e *Engine) FindUser(ctx context.Context, accountName string, attributes []string) ([]*Entry, error) {
	if strings.TrimSpace(accountName) == "" {
		return []*Entry{}, nil
	}

	return e.Search(ctx, e.filters.AccountFilter(accountName), attributes)
}

// FindMatchingUsers searches for people matching free-text input (name
// fragments, "first last" pairs, or phone numbers). Empty input returns an
// empty result without touching the network.
func (e *Engine) FindMatchingUsers(ctx context.Context, text string, attributes []string) ([]*Entry, error) {
	if NormalizeQuery(text) == "" {
		return []*Entry{}, nil
	}

	filter, err := e.filters.PersonFilter(text)
	if err != nil {
		return nil, err
	}

	return e.Search(ctx, filter, attributes)
}
