package directory

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/go-objectsid"
	"github.com/go-ldap/ldap/v3"
)

// SIDHandler decodes objectSid values. The directory stores SIDs as binary
// data that needs conversion to the S-1-5-21-... display form.
type SIDHandler struct{}

// NewSIDHandler creates a new SID handler instance.
func NewSIDHandler() *SIDHandler {
	return &SIDHandler{}
}

// minSIDLength covers revision, sub-authority count, and identifier authority.
const minSIDLength = 8

// ConvertBinarySIDToString converts a binary SID to its string representation.
func (s *SIDHandler) ConvertBinarySIDToString(binarySID []byte) (string, error) {
	if len(binarySID) < minSIDLength {
		return "", fmt.Errorf("binary SID too short: %d bytes", len(binarySID))
	}

	// Sub-authority count lives in the second byte; each sub-authority is a
	// 32-bit value.
	subAuthorityCount := int(binarySID[1])
	if len(binarySID) < minSIDLength+4*subAuthorityCount {
		return "", fmt.Errorf("binary SID truncated: %d bytes for %d sub-authorities", len(binarySID), subAuthorityCount)
	}

	sid := objectsid.Decode(binarySID)

	return sid.String(), nil
}

// ExtractSIDSafe extracts the objectSid from an entry as a display string,
// returning empty string when absent or malformed. Entries that already carry
// a pre-formatted string value (as fakes in tests do) are passed through.
func (s *SIDHandler) ExtractSIDSafe(entry *ldap.Entry) string {
	if entry == nil {
		return ""
	}

	sidString := entry.GetAttributeValue("objectSid")
	if strings.HasPrefix(sidString, "S-") {
		return sidString
	}

	sidBytes := entry.GetRawAttributeValue("objectSid")
	if len(sidBytes) > 0 {
		sid, err := s.ConvertBinarySIDToString(sidBytes)
		if err != nil {
			return ""
		}
		return sid
	}

	return ""
}
