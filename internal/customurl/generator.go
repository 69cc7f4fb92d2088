// internal/customurl/generator.go
//
// URL materialisation from wildcard patterns.
//
// Context
// -------
// A base domain such as "*.lumen.io/test/*" holds N wildcard slots (the "*"
// markers).  Generate interleaves the literal fragments with the supplied
// domain parts, one part per slot, then applies the locale: substituted in
// place when the pattern carries a {localization} placeholder, appended as a
// trailing segment otherwise.
//
// Edge cases
// ----------
// • Fewer parts than slots is an error (MissingDomainPartError, naming the
//   first unmet slot).  Excess parts are never inserted — the interleave
//   stops once the slots are exhausted.  The asymmetry is deliberate.
// • The result never ends with "/".
//
// Notes
// -----
// • Pure function; identical inputs always yield identical output.
// • Oxford commas, two spaces after periods.

package customurl

import (
	"fmt"
	"strings"

	"github.com/yanizio/locus/internal/localization"
	"github.com/yanizio/locus/internal/replacer"
)

// Wildcard is the slot marker inside base-domain patterns.
const Wildcard = "*"

// MissingDomainPartError reports a wildcard slot with no domain part to
// consume.  The caller must supply corrected input; the generator never
// retries.
type MissingDomainPartError struct {
	BaseDomain string
	Slot       int // zero-based index of the first unfilled slot
}

func (e *MissingDomainPartError) Error() string {
	return fmt.Sprintf("customurl: no domain part for wildcard slot %d in %q",
		e.Slot, e.BaseDomain)
}

// Generate materialises one URL from baseDomain and domainParts.  loc may be
// nil when the route has no locale of its own.
func Generate(baseDomain string, domainParts []string, loc *localization.Localization) (string, error) {
	fragments := strings.Split(baseDomain, Wildcard)
	slots := len(fragments) - 1

	var b strings.Builder
	b.WriteString(fragments[0])
	for i := 0; i < slots; i++ {
		if i >= len(domainParts) {
			return "", &MissingDomainPartError{BaseDomain: baseDomain, Slot: i}
		}
		b.WriteString(domainParts[i])
		b.WriteString(fragments[i+1])
	}

	url := b.String()
	switch {
	case replacer.Has(url, replacer.TokenLocalization):
		if loc != nil {
			url = replacer.ReplaceLocalization(url, loc.LocaleCode())
		}
	case loc != nil:
		url += "/" + loc.LocaleCode()
	}

	return strings.TrimRight(url, "/"), nil
}
