// internal/localization/localization.go
//
// Localization value object.
//
// Context
// -------
// A Localization pairs an ISO-639 language with an optional ISO-3166 country
// (“de”, “de_at”).  The custom-URL generator appends or substitutes the
// locale code into generated URLs, and each webspace carries the list of
// localizations it serves.  Values are plain structs, safe to copy, compare,
// and log.
//
// Notes
// -----
// • Codes are normalised to lower case on Parse; underscore “de_at”, BCP-47
//   “de-AT”, and bare “de” are all accepted.
// • Oxford commas, two spaces after periods.

package localization

import (
	"fmt"
	"strings"
)

// Localization identifies one language, optionally narrowed to a country.
// The zero value is invalid; construct with New or Parse.
type Localization struct {
	Language string // "de", "en", ...
	Country  string // "at", "us", ... or "" when language-wide
}

// New returns a Localization with both codes lower-cased.
func New(language, country string) Localization {
	return Localization{
		Language: strings.ToLower(language),
		Country:  strings.ToLower(country),
	}
}

// Parse accepts "de", "de_at", or "de-AT" and returns the normalised value.
// An empty or malformed code yields an error rather than a half-filled value.
func Parse(code string) (Localization, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Localization{}, fmt.Errorf("localization: empty code")
	}

	norm := strings.ReplaceAll(code, "-", "_")
	parts := strings.Split(norm, "_")
	switch len(parts) {
	case 1:
		return New(parts[0], ""), nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Localization{}, fmt.Errorf("localization: malformed code %q", code)
		}
		return New(parts[0], parts[1]), nil
	default:
		return Localization{}, fmt.Errorf("localization: malformed code %q", code)
	}
}

// LocaleCode renders the canonical lower-case form: "de" or "de_at".
func (l Localization) LocaleCode() string {
	if l.Country == "" {
		return l.Language
	}
	return l.Language + "_" + l.Country
}

// String implements fmt.Stringer for log output.
func (l Localization) String() string { return l.LocaleCode() }

// IsZero reports whether the value carries no language at all.
func (l Localization) IsZero() bool { return l.Language == "" }

// ParseList splits a comma-separated locale column ("en,de_at,fr") into
// Localization values, skipping empty entries.  Used by the webspace loader.
func ParseList(csv string) ([]Localization, error) {
	var out []Localization
	for _, raw := range strings.Split(csv, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		loc, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}
