package common

import (
	"strconv"
	"strings"
)

// ParseUint64 parses a decimal height. Surrounding whitespace is ignored.
func ParseUint64(val string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(val), 10, 64)
}

// TrimHexPrefix strips a leading 0x from a hash so that hashes reported with
// and without the prefix compare equal.
func TrimHexPrefix(hash string) string {
	return strings.TrimPrefix(strings.TrimPrefix(hash, "0x"), "0X")
}

// SameHash compares two hex hashes ignoring the 0x prefix and letter case.
func SameHash(a, b string) bool {
	return strings.EqualFold(TrimHexPrefix(a), TrimHexPrefix(b))
}

func ToLowerWithTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
