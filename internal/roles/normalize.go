package roles

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// letterforms that NFD does not decompose to a base letter plus combining
// marks. These are distinct letters in Nordic/Germanic/Slavic orthographies,
// not composed characters, so they need an explicit substitution.
var letterformReplacer = strings.NewReplacer(
	"Ø", "O", "ø", "o",
	"Æ", "AE", "æ", "ae",
	"Œ", "OE", "œ", "oe",
	"Đ", "D", "đ", "d",
	"Ð", "D", "ð", "d",
	"Þ", "TH", "þ", "th",
	"ß", "ss",
	"Ł", "L", "ł", "l",
	"Ħ", "H", "ħ", "h",
	"Ŧ", "T", "ŧ", "t",
	"Ŋ", "N", "ŋ", "n",
	"ı", "i",
	"Ĳ", "IJ", "ĳ", "ij",
)

// NormalizeName canonicalizes a display name for accent-insensitive
// comparison: substitute non-decomposing letterforms, NFD-decompose,
// strip combining marks, lowercase. Idempotent.
//
// Characters outside the substitution table that still fail to decompose
// (rare orthographies) pass through unchanged except for lowercasing.
func NormalizeName(s string) string {
	if s == "" {
		return ""
	}
	s = letterformReplacer.Replace(s)
	s = stripDiacritics(s)
	return strings.ToLower(s)
}

func stripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if !unicode.Is(unicode.Mn, r) { // Mn = Mark, Nonspacing (combining accents)
			b.WriteRune(r)
		}
	}
	return b.String()
}
