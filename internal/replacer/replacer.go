// internal/replacer/replacer.go
//
// Placeholder substitution for URL patterns.
//
// Patterns such as "{host}/{localization}/news" carry brace-wrapped tokens
// that are filled in when a concrete URL is materialised.  Replace swaps
// every literal occurrence of one token; tokens absent from the pattern pass
// through untouched, which is intentional — callers substitute the full
// token set without checking which placeholders a pattern actually uses.
package replacer

import "strings"

// Fixed token set understood by the convenience wrappers.
const (
	TokenHost         = "host"
	TokenLocalization = "localization"
	TokenLanguage     = "language"
	TokenCountry      = "country"
)

// Replace substitutes every occurrence of "{token}" in pattern with value.
// A token that does not appear in pattern leaves it unchanged.
func Replace(pattern, token, value string) string {
	return strings.ReplaceAll(pattern, "{"+token+"}", value)
}

// ReplaceHost fills the {host} placeholder.
func ReplaceHost(pattern, host string) string {
	return Replace(pattern, TokenHost, host)
}

// ReplaceLocalization fills the {localization} placeholder with a full
// locale code such as "de_at".
func ReplaceLocalization(pattern, locale string) string {
	return Replace(pattern, TokenLocalization, locale)
}

// ReplaceLanguage fills the {language} placeholder.
func ReplaceLanguage(pattern, language string) string {
	return Replace(pattern, TokenLanguage, language)
}

// ReplaceCountry fills the {country} placeholder.
func ReplaceCountry(pattern, country string) string {
	return Replace(pattern, TokenCountry, country)
}

// Has reports whether pattern contains the given placeholder.  The generator
// uses this to decide between substitution and appending.
func Has(pattern, token string) bool {
	return strings.Contains(pattern, "{"+token+"}")
}
