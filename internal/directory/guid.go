package directory

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
	"github.com/google/uuid"
)

// GUIDHandler decodes objectGUID values. The directory stores GUIDs in a
// mixed-endian format that differs from standard UUID byte ordering.
type GUIDHandler struct{}

// NewGUIDHandler creates a new GUID handler instance.
func NewGUIDHandler() *GUIDHandler {
	return &GUIDHandler{}
}

// guidBytesLength is the fixed binary size of an objectGUID value.
const guidBytesLength = 16

// GUIDBytesToString converts directory GUID bytes to the standard hyphenated
// string form.
func (g *GUIDHandler) GUIDBytesToString(guidBytes []byte) (string, error) {
	if len(guidBytes) != guidBytesLength {
		return "", fmt.Errorf("invalid GUID byte length: expected %d, got %d", guidBytesLength, len(guidBytes))
	}

	// Reorder from the directory's mixed-endian layout to standard UUID
	// ordering: Data1..Data3 are little-endian, Data4 is big-endian.
	standardBytes := make([]byte, guidBytesLength)

	standardBytes[0] = guidBytes[3]
	standardBytes[1] = guidBytes[2]
	standardBytes[2] = guidBytes[1]
	standardBytes[3] = guidBytes[0]

	standardBytes[4] = guidBytes[5]
	standardBytes[5] = guidBytes[4]

	standardBytes[6] = guidBytes[7]
	standardBytes[7] = guidBytes[6]

	copy(standardBytes[8:], guidBytes[8:])

	u, err := uuid.FromBytes(standardBytes)
	if err != nil {
		return "", fmt.Errorf("failed to decode GUID bytes: %w", err)
	}

	return u.String(), nil
}

// ExtractGUIDSafe extracts the objectGUID from an entry as a display string,
// returning empty string when absent or malformed.
func (g *GUIDHandler) ExtractGUIDSafe(entry *ldap.Entry) string {
	if entry == nil {
		return ""
	}

	guidBytes := entry.GetRawAttributeValue("objectGUID")
	if len(guidBytes) == 0 {
		return ""
	}

	guid, err := g.GUIDBytesToString(guidBytes)
	if err != nil {
		return ""
	}
	return guid
}
