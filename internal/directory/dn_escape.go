package directory

import (
	"strings"
)

// EscapeDNValue escapes special characters in a DN attribute value according
// to RFC 4514: the characters , + " \ < > ; always, a leading #, leading and
// trailing spaces, and NUL as \00.
func EscapeDNValue(value string) string {
	if value == "" {
		return value
	}

	var result strings.Builder
	result.Grow(len(value) + 10)

	for i, r := range value {
		switch r {
		case ',', '+', '"', '\\', '<', '>', ';':
			result.WriteRune('\\')
			result.WriteRune(r)
		case '#':
			if i == 0 {
				result.WriteRune('\\')
			}
			result.WriteRune(r)
		case ' ':
			if i == 0 || i == len(value)-1 {
				result.WriteRune('\\')
			}
			result.WriteRune(r)
		case 0:
			result.WriteString("\\00")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// UnescapeDNValue is the inverse of EscapeDNValue: it removes RFC 4514 escape
// sequences, including \XX hex escapes. Trailing or malformed escapes are
// passed through unchanged.
func UnescapeDNValue(value string) string {
	if value == "" || !strings.Contains(value, "\\") {
		return value
	}

	var result strings.Builder
	result.Grow(len(value))

	escaped := false
	hexBuffer := make([]rune, 0, 2)

	for i, r := range value {
		if escaped {
			if isHexDigit(r) {
				hexBuffer = append(hexBuffer, r)
				if len(hexBuffer) == 2 {
					result.WriteRune(rune(hexValue(hexBuffer[0])<<4 | hexValue(hexBuffer[1])))
					hexBuffer = hexBuffer[:0]
					escaped = false
				}
				continue
			}

			// A backslash followed by one hex digit and then a non-hex
			// character is not a valid escape; keep it literally.
			if len(hexBuffer) > 0 {
				result.WriteRune('\\')
				result.WriteRune(hexBuffer[0])
				hexBuffer = hexBuffer[:0]
			}

			result.WriteRune(r)
			escaped = false
		} else if r == '\\' {
			if i == len(value)-1 {
				result.WriteRune(r)
			} else {
				escaped = true
			}
		} else {
			result.WriteRune(r)
		}
	}

	if escaped {
		result.WriteRune('\\')
	}
	if len(hexBuffer) > 0 {
		result.WriteRune('\\')
		result.WriteRune(hexBuffer[0])
	}

	return result.String()
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hexValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	default:
		return int(r-'A') + 10
	}
}
