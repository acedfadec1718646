package directory

import (
	"context"
	"strings"
	"time"
)

// loginAttributes merges the attributes login evaluation needs with the ones
// the caller asked for.
func (e *Engine) loginAttributes(requested []string) []string {
	required := []string{
		"displayName",
		e.cfg.AccountAttribute,
		"distinguishedName",
		e.cfg.ExpiresAttribute,
		e.cfg.EnabledAttribute,
	}

	attrs := append([]string(nil), required...)
	for _, a := range requested {
		present := false
		for _, r := range attrs {
			if strings.EqualFold(r, a) {
				present = true
				break
			}
		}
		if !present {
			attrs = append(attrs, a)
		}
	}

	return attrs
}

// Login validates a credential for the named account.
//
// The account is first looked up over the service-bound connection. If no
// account matches, Login returns NotFoundError. If the account is expired or
// disabled, Login returns the entry with the corresponding flag set and a nil
// error, without ever presenting the password to the directory; callers decide
// how to message ineligible accounts. Otherwise the password is verified with
// a bind as the account's own DN on a fresh connection. Any verification
// failure is AuthError; the error does not distinguish a bad password from
// other bind rejections.
func (e *Engine) Login(ctx context.Context, accountName, password string, attributes []string) (*Entry, error) {
	entries, err := e.FindUser(ctx, accountName, e.loginAttributes(attributes))
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		e.logger.Debug("login lookup found no account", "account", accountName)
		return nil, NewNotFoundError(accountName)
	}

	entry := entries[0]
	if len(entries) > 1 {
		e.logger.Warn("login lookup matched multiple accounts, using first",
			"account", accountName, "matches", len(entries))
	}

	entry.Expired = e.isExpired(entry, time.Now())
	entry.Disabled = e.isDisabled(entry)

	if entry.Expired || entry.Disabled {
		e.logger.Info("login refused for ineligible account",
			"account", accountName, "expired", entry.Expired, "disabled", entry.Disabled)
		return entry, nil
	}

	// An empty password would turn the verifying bind into an anonymous bind,
	// which most servers accept. That must never count as a valid credential.
	if password == "" {
		return nil, NewAuthError("empty password", nil)
	}

	conn, err := e.dialer.Dial(ctx)
	if err != nil {
		e.logger.Error("failed to acquire connection for credential verification",
			"account", accountName, "error", err.Error())
		return nil, NewAuthError("credential verification unavailable", err)
	}
	defer conn.Close()

	if err := conn.Bind(entry.DN, password); err != nil {
		if isCredentialError(err) {
			e.logger.Info("login rejected", "account", accountName)
		} else {
			e.logger.Error("credential verification failed", "account", accountName, "error", err.Error())
		}
		return nil, NewAuthError("invalid credentials", err)
	}

	e.logger.Info("login succeeded", "account", accountName)

	return entry, nil
}

// isExpired reports whether the entry's expiry attribute names a moment in the
// past. Absent, zero, and never-expires values all mean not expired.
func (e *Engine) isExpired(entry *Entry, now time.Time) bool {
	expires, ok := ParseTicks(entry.Value(e.cfg.ExpiresAttribute))
	return ok && expires.Before(now)
}

// isDisabled reports whether the entry carries the enablement attribute with a
// non-truthy value. The directory only materializes the attribute on accounts
// that have been disabled, so absence means enabled.
func (e *Engine) isDisabled(entry *Entry) bool {
	if !entry.Has(e.cfg.EnabledAttribute) {
		return false
	}

	switch strings.ToLower(entry.Value(e.cfg.EnabledAttribute)) {
	case "true", "1", "yes":
		return false
	}
	return true
}
