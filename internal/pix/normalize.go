package pix

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// BR Code text fields carry a restricted alphabet, so merchant names like
// "Doces & Cia Ltda." or cities like "São Paulo" have to be flattened before
// they are length-prefixed.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText strips diacritics, drops every character outside
// [A-Za-z0-9 ], uppercases and trims. The result may be empty.
func NormalizeText(s string) string {
	flat, _, err := transform.String(deaccent, s)
	if err != nil {
		flat = s
	}

	var b strings.Builder
	b.Grow(len(flat))
	for _, r := range strings.ToUpper(flat) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// FormatLength renders a TLV length as a 2-digit zero-padded decimal.
// Callers truncate values first; n must never exceed 99.
func FormatLength(n int) string {
	return fmt.Sprintf("%02d", n)
}

// truncate cuts s to at most max bytes. Normalized fields are pure ASCII, so
// byte and character counts agree.
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
