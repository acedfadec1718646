package directory

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binarySID builds a binary SID with authority 5 and the given sub-authorities.
func binarySID(subAuthorities ...uint32) []byte {
	sid := []byte{0x01, byte(len(subAuthorities)), 0x00, 0x00, 0x00, 0x00, 0x00, 0x05}
	for _, sub := range subAuthorities {
		sid = append(sid, byte(sub), byte(sub>>8), byte(sub>>16), byte(sub>>24))
	}
	return sid
}

func TestConvertBinarySIDToString(t *testing.T) {
	s := NewSIDHandler()

	got, err := s.ConvertBinarySIDToString(binarySID(21, 1, 2, 3, 1001))
	require.NoError(t, err)
	assert.Equal(t, "S-1-5-21-1-2-3-1001", got)
}

func TestConvertBinarySIDToStringMalformed(t *testing.T) {
	tests := []struct {
		name string
		sid  []byte
	}{
		{
			name: "empty",
			sid:  nil,
		},
		{
			name: "shorter than header",
			sid:  []byte{0x01, 0x02, 0x00},
		},
		{
			name: "truncated sub-authorities",
			sid:  []byte{0x01, 0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05, 0x15, 0x00, 0x00, 0x00},
		},
	}

	s := NewSIDHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ConvertBinarySIDToString(tt.sid)
			assert.Error(t, err)
		})
	}
}

func TestExtractSIDSafe(t *testing.T) {
	s := NewSIDHandler()

	t.Run("binary value decoded", func(t *testing.T) {
		entry := &ldap.Entry{
			DN:         "CN=Jane Doe,DC=example,DC=com",
			Attributes: []*ldap.EntryAttribute{rawBinaryAttribute("objectSid", binarySID(21, 1, 2, 3, 1001))},
		}
		assert.Equal(t, "S-1-5-21-1-2-3-1001", s.ExtractSIDSafe(entry))
	})

	t.Run("pre-formatted string passed through", func(t *testing.T) {
		entry := rawEntry("CN=Jane Doe,DC=example,DC=com", map[string][]string{
			"objectSid": {"S-1-5-21-123456789-123456789-123456789-1001"},
		})
		assert.Equal(t, "S-1-5-21-123456789-123456789-123456789-1001", s.ExtractSIDSafe(entry))
	})

	t.Run("absent attribute", func(t *testing.T) {
		entry := rawEntry("CN=Jane Doe,DC=example,DC=com", nil)
		assert.Empty(t, s.ExtractSIDSafe(entry))
	})

	t.Run("malformed binary value", func(t *testing.T) {
		entry := &ldap.Entry{
			DN:         "CN=Jane Doe,DC=example,DC=com",
			Attributes: []*ldap.EntryAttribute{rawBinaryAttribute("objectSid", []byte{0x01})},
		}
		assert.Empty(t, s.ExtractSIDSafe(entry))
	})

	t.Run("nil entry", func(t *testing.T) {
		assert.Empty(t, s.ExtractSIDSafe(nil))
	})
}
