// Package normalize provides utilities for normalizing and sanitizing data
// coming from readers and from metadata lookups.
package normalize

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// bibliographic maps ISO 639-2/B codes, which language.ParseBase does not
// know, to ISO 639-1.
var bibliographic = map[string]string{
	"ger": "de", "fre": "fr", "dut": "nl", "chi": "zh", "cze": "cs",
	"gre": "el", "per": "fa", "rum": "ro", "slo": "sk", "alb": "sq",
	"arm": "hy", "baq": "eu", "bur": "my", "geo": "ka", "ice": "is",
	"mac": "mk", "may": "ms", "tib": "bo", "wel": "cy",
}

// namedLanguages are the languages whose English names are accepted as input.
var namedLanguages = []string{
	"en", "es", "fr", "de", "it", "pt", "nl", "ru", "ja", "zh", "ko", "ar",
	"hi", "pl", "sv", "no", "da", "fi", "tr", "el", "he", "cs", "hu", "ro",
	"th", "vi", "id", "ms", "uk", "ca", "hr", "sk", "bg", "lt", "lv", "et",
	"sl", "sr", "fa", "bn", "ta", "te", "mr", "gu", "kn", "ml", "pa", "ur",
	"ne", "sw", "af", "zu", "cy", "ga", "eu", "gl", "is", "mk", "bs", "sq",
	"hy", "ka", "kk", "uz", "mn", "tl", "la", "eo",
}

var nameToCode = func() map[string]string {
	namer := display.English.Languages()
	m := map[string]string{
		"farsi":     "fa",
		"mandarin":  "zh",
		"cantonese": "zh",
		"filipino":  "tl",
	}
	for _, code := range namedLanguages {
		base := language.MustParseBase(code)
		m[strings.ToLower(namer.Name(base))] = code
	}
	return m
}()

// LanguageCode converts a language representation to an ISO 639-1 code
// where one exists:
//   - ISO 639-1 codes: "en" -> "en"
//   - ISO 639-2 codes: "eng" -> "en", "ger" -> "de"
//   - Locale codes: "en-US", "en_GB" -> "en"
//   - English names: "English", "GERMAN" -> "en", "de"
//
// Returns empty string for unrecognized values.
func LanguageCode(raw string) string {
	s := strings.ToLower(Text(raw))
	if s == "" {
		return ""
	}
	if code, ok := nameToCode[s]; ok {
		return code
	}

	s = strings.ReplaceAll(s, "_", "-")
	if i := strings.IndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	if code, ok := bibliographic[s]; ok {
		return code
	}
	if len(s) < 2 || len(s) > 3 {
		return ""
	}

	base, err := language.ParseBase(s)
	if err != nil || base.String() == "und" {
		return ""
	}
	return base.String()
}

// Language converts a language representation to its English display name.
// "en" -> "English", "deu" -> "German". Returns "" for unrecognized values.
func Language(raw string) string {
	code := LanguageCode(raw)
	if code == "" {
		return ""
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(base)
}

// Text strips NUL bytes and surrounding whitespace and collapses internal
// whitespace runs to single spaces.
func Text(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
