// internal/locator/slug.go
//
// Slug and path-segment helpers.
//
// • Slugify(title) ─ converts arbitrary text into a URL-safe segment
//   restricted to ASCII a-z, 0-9 and “-”.  Diacritics are folded to their
//   base letters first (“ü” → “u”), so localised titles produce readable
//   slugs instead of dashes.
// • JoinPath(parent, segment) ─ joins an already-resolved ancestor path with
//   a new segment using a single “/”, collapsing empty segments so adjacent
//   separators never double up.
//
// Rules (Slugify)
// ---------------
// 1. Fold combining marks away (NFD, strip Mn, NFC).
// 2. Lower-case everything.
// 3. Convert any run of non-[a-z0-9] characters to one “-”.
// 4. Trim leading / trailing “-”.
// 5. Cap at 100 bytes, trimming a dangling “-” after the cut.

package locator

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes, drops combining marks, and recomposes.  Safe for
// concurrent use; transform.Chain values are stateless templates.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts title → lower-kebab ASCII.  An empty result (e.g. a title
// of pure punctuation) yields "", which the strategy rejects.
func Slugify(title string) string {
	folded, _, err := transform.String(foldMarks, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))

	lastWasDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > 100 {
		slug = strings.TrimRight(slug[:100], "-")
	}
	return slug
}

// JoinSegments concatenates per-level path segments, omitting empty ones so
// adjacent separators never double up.  A webspace root contributes an empty
// segment; its children therefore start at their own segment ("goodbye", not
// "/goodbye" or "//goodbye").
func JoinSegments(segments ...string) string {
	var kept []string
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "/")
}

// JoinPath joins parent + segment ensuring exactly one leading slash and no
// duplicate separators.  Empty segments contributed by ancestors collapse
// away, so a root node with an empty segment never produces "//child".
func JoinPath(parent, segment string) string {
	parent = strings.Trim(parent, "/")
	segment = strings.Trim(segment, "/")

	switch {
	case parent == "" && segment == "":
		return "/"
	case parent == "":
		return "/" + segment
	case segment == "":
		return "/" + parent
	default:
		return "/" + parent + "/" + segment
	}
}
