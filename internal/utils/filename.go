package utils

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// fallbackCharmaps are tried in order when a filename looks like mojibake.
var fallbackCharmaps = []*charmap.Charmap{
	charmap.Windows1251,
	charmap.ISO8859_5,
}

// DecodeFileName recovers Cyrillic filenames mangled by transports that
// misdeclare their encoding. Percent-encoded names are unescaped; names that
// already contain Cyrillic are returned as-is; otherwise each byte-preserving
// reinterpretation is tried and the first one yielding Cyrillic wins. Failure
// is never an error: the original name is the fallback.
func DecodeFileName(name string) string {
	if strings.Contains(name, "%") {
		if decoded, err := url.QueryUnescape(name); err == nil && decoded != "" {
			return decoded
		}
	}

	if hasCyrillic(name) {
		return name
	}

	raw, ok := singleByteRunes(name)
	if !ok {
		return name
	}

	for _, cm := range fallbackCharmaps {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		if candidate := string(decoded); hasCyrillic(candidate) {
			return candidate
		}
	}

	return name
}

// StripExtension removes the final extension from a filename, if any.
func StripExtension(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx]
	}
	return name
}

// singleByteRunes converts a string whose runes all fit in one byte back to
// the raw bytes a single-byte decoder can reinterpret.
func singleByteRunes(s string) ([]byte, bool) {
	raw := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, false
		}
		raw = append(raw, byte(r))
	}
	return raw, true
}

func hasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
