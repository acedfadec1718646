package directory

import (
	"strconv"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Entry is a normalized directory record. Attribute values are flattened to
// plain scalars and sequences: a single-valued attribute is a string, a
// multi-valued attribute is a []string in server order, and binary attributes
// (the photo) are []byte. Library wrapper types never survive normalization.
//
// Expired and Disabled are only meaningful on entries returned by Login;
// searches leave them false.
type Entry struct {
	DN         string         `json:"dn"`
	Attributes map[string]any `json:"attributes"`

	Expired  bool `json:"expired"`
	Disabled bool `json:"disabled"`

	// Contractor is nil when contractor classification is not configured;
	// absence is distinct from false.
	Contractor *bool `json:"contractor,omitempty"`

	// Controls carries display forms of any server response controls. The
	// protocol returns controls for the search response as a whole, not per
	// entry, so every entry of one search carries the same values.
	Controls []string `json:"controls,omitempty"`
}

// Value returns the attribute as a single string: the value itself for a
// single-valued attribute, the first value for a multi-valued one, empty
// string otherwise. Lookup is case-insensitive, as attribute names are in the
// directory.
func (e *Entry) Value(name string) string {
	switch v := e.attribute(name).(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// Values returns all values of an attribute as a string slice.
func (e *Entry) Values(name string) []string {
	switch v := e.attribute(name).(type) {
	case string:
		return []string{v}
	case []string:
		return v
	}
	return nil
}

// Binary returns the attribute's byte-sequence value, or nil if the
// attribute is absent or not binary.
func (e *Entry) Binary(name string) []byte {
	if v, ok := e.attribute(name).([]byte); ok {
		return v
	}
	return nil
}

// Has reports whether the attribute is present at all.
func (e *Entry) Has(name string) bool {
	return e.attribute(name) != nil
}

// AccountType decodes the entry's sAMAccountType attribute. The second
// return value is false when the attribute is absent or outside the known
// code set.
func (e *Entry) AccountType() (AccountType, bool) {
	raw := e.Value("sAMAccountType")
	if raw == "" {
		return 0, false
	}

	code, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return AccountTypeFromCode(code)
}

func (e *Entry) attribute(name string) any {
	if v, ok := e.Attributes[name]; ok {
		return v
	}
	for k, v := range e.Attributes {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}

// EntryNormalizer converts raw directory entries into Entry records.
type EntryNormalizer struct {
	cfg   *Config
	guids *GUIDHandler
	sids  *SIDHandler
}

// NewEntryNormalizer creates a normalizer bound to the given configuration.
func NewEntryNormalizer(cfg *Config) *EntryNormalizer {
	return &EntryNormalizer{
		cfg:   cfg,
		guids: NewGUIDHandler(),
		sids:  NewSIDHandler(),
	}
}

// Normalize converts one raw entry, returning nil when the entry belongs to
// an excluded organizational unit. Exclusion happens after the server already
// counted the entry toward the search size limit, so heavy exclusion can
// legitimately shrink result sets below the configured ceiling.
func (n *EntryNormalizer) Normalize(raw *ldap.Entry, controls []ldap.Control) *Entry {
	if raw == nil {
		return nil
	}

	for _, ou := range n.cfg.ExcludedOUs {
		if dnContainsOU(raw.DN, ou) {
			return nil
		}
	}

	out := &Entry{
		DN:         raw.DN,
		Attributes: make(map[string]any, len(raw.Attributes)),
	}

	for _, attr := range raw.Attributes {
		switch {
		case strings.EqualFold(attr.Name, n.cfg.PhotoAttribute):
			// Photos are binary; the string representation would corrupt them.
			out.Attributes[attr.Name] = append([]byte(nil), raw.GetRawAttributeValue(attr.Name)...)
		case strings.EqualFold(attr.Name, "objectGUID"):
			if guid := n.guids.ExtractGUIDSafe(raw); guid != "" {
				out.Attributes[attr.Name] = guid
			}
		case strings.EqualFold(attr.Name, "objectSid"):
			if sid := n.sids.ExtractSIDSafe(raw); sid != "" {
				out.Attributes[attr.Name] = sid
			}
		case len(attr.Values) == 1:
			out.Attributes[attr.Name] = attr.Values[0]
		case len(attr.Values) > 1:
			out.Attributes[attr.Name] = append([]string(nil), attr.Values...)
		}
	}

	if n.cfg.ContractorOU != "" {
		contractor := dnContainsOU(raw.DN, n.cfg.ContractorOU)
		out.Contractor = &contractor
	}

	for _, control := range controls {
		if control != nil {
			out.Controls = append(out.Controls, control.String())
		}
	}

	return out
}

// dnContainsOU reports whether the distinguished name carries an OU component
// with the given name. Comparison is case-insensitive. Malformed DNs fall
// back to a substring check.
func dnContainsOU(dn, ou string) bool {
	parsed, err := ldap.ParseDN(dn)
	if err != nil {
		// The raw DN carries escaped values, so the OU name must be escaped
		// before the substring comparison.
		return strings.Contains(strings.ToLower(dn), "ou="+strings.ToLower(EscapeDNValue(ou)))
	}

	for _, rdn := range parsed.RDNs {
		for _, attr := range rdn.Attributes {
			if strings.EqualFold(attr.Type, "OU") && strings.EqualFold(attr.Value, ou) {
				return true
			}
		}
	}

	return false
}
