package directory

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-ldap/ldap/v3"
)

// FilterBuilder translates partial human input into directory search filters.
// All caller-provided text is escaped before it reaches a filter, so reserved
// characters ( ) * \ and NUL can never alter filter structure.
type FilterBuilder struct {
	cfg *Config
}

// NewFilterBuilder creates a filter builder bound to the given configuration.
func NewFilterBuilder(cfg *Config) *FilterBuilder {
	return &FilterBuilder{cfg: cfg}
}

// phoneDigitsRegex detects input carrying three or more consecutive digits,
// which is treated as a phone-number search.
var phoneDigitsRegex = regexp.MustCompile(`[0-9]{3}`)

// AccountFilter returns an exact-match filter on the account-name attribute.
// Callers must reject empty input before building a filter; an empty account
// name yields an empty result set upstream, never a search.
func (b *FilterBuilder) AccountFilter(accountName string) string {
	return fmt.Sprintf("(&(objectClass=user)(%s=%s))",
		b.cfg.AccountAttribute, ldap.EscapeFilter(accountName))
}

// PersonFilter builds a filter for free-text person or phone search.
//
// Strategy selection, in precedence order:
//
//  1. Two tokens separated by a single space, both at least MinNameLength
//     long: treated as "first last" and matched in both orders against the
//     first-name and display-name attributes.
//  2. Three or more consecutive digits: treated as a phone search against the
//     canonical stored phone format.
//  3. Anything else: prefix match on first name, display name, or email.
//
// Name splitting deliberately takes precedence over phone detection, so input
// like "Jane 3rd" is a name search even though it carries digits. The result
// is AND'd with the user object class and, when configured, the negated
// exclusion fragment.
func (b *FilterBuilder) PersonFilter(query string) (string, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return "", NewSearchError("query cannot be empty", "", nil)
	}

	var clause string
	if first, last, ok := b.splitName(q); ok {
		clause = fmt.Sprintf("(|(&(givenName=%s*)(displayName=%s*))(&(givenName=%s*)(displayName=%s*)))",
			ldap.EscapeFilter(first), ldap.EscapeFilter(last),
			ldap.EscapeFilter(last), ldap.EscapeFilter(first))
	} else if phoneDigitsRegex.MatchString(q) {
		clause = fmt.Sprintf("(%s=*%s*)",
			b.cfg.PhoneAttribute, ldap.EscapeFilter(CanonicalPhone(q)))
	} else {
		e := ldap.EscapeFilter(q)
		clause = fmt.Sprintf("(|(givenName=%s*)(displayName=%s*)(mail=%s*))", e, e, e)
	}

	var sb strings.Builder
	sb.WriteString("(&(objectClass=user)")
	if b.cfg.ExcludeFilter != "" {
		sb.WriteString("(!")
		sb.WriteString(b.cfg.ExcludeFilter)
		sb.WriteString(")")
	}
	sb.WriteString(clause)
	sb.WriteString(")")

	return sb.String(), nil
}

// splitName applies the two-part name heuristic: exactly one space, both
// halves at least MinNameLength runes long. Length is counted in runes, not
// bytes, so multibyte names are measured the way a reader would.
func (b *FilterBuilder) splitName(q string) (first, last string, ok bool) {
	if strings.Count(q, " ") != 1 {
		return "", "", false
	}

	parts := strings.SplitN(q, " ", 2)
	if utf8.RuneCountInString(parts[0]) < b.cfg.MinNameLength || utf8.RuneCountInString(parts[1]) < b.cfg.MinNameLength {
		return "", "", false
	}

	return parts[0], parts[1], true
}

// NormalizeQuery prepares free-text input for filter construction: literal
// %20 sequences and + signs become spaces, surrounding whitespace is trimmed.
func NormalizeQuery(query string) string {
	q := strings.ReplaceAll(query, "%20", " ")
	q = strings.ReplaceAll(q, "+", " ")
	return strings.TrimSpace(q)
}

// CanonicalPhone converts free-form phone input to the format the directory
// stores, so substring matching succeeds:
//
//   - all non-digits stripped; only the last 10 digits kept
//   - more than 7 digits: xxx-xxx-xxxx
//   - 6 or 7 digits: xxx-xxxx
//   - otherwise: bare digits
//
// Canonicalization is idempotent: a value already in stored form maps to
// itself.
func CanonicalPhone(input string) string {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) > 10 {
		d = d[len(d)-10:]
	}

	switch n := len(d); {
	case n > 7:
		return fmt.Sprintf("%s-%s-%s", d[:n-7], d[n-7:n-4], d[n-4:])
	case n > 5:
		return fmt.Sprintf("%s-%s", d[:n-4], d[n-4:])
	default:
		return d
	}
}
