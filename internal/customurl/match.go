// internal/customurl/match.go
//
// Host matching against wildcard base-domain patterns.
//
// Context
// -------
// Requests arrive on concrete hosts ("test-1.lumen.io"); routes are stored
// under wildcard patterns ("*.lumen.io/test/*").  MatchHost decides whether
// a host could have been produced by a pattern, so webspace lookup and the
// delivery-time route scan only consider patterns that can possibly match.
// Only the host portion of the pattern takes part; path fragments are the
// generator's concern.
//
// Notes
// -----
// • Each wildcard must consume at least one character — "*.lumen.io" does
//   not match the bare "lumen.io".
// • Oxford commas, two spaces after periods.

package customurl

import "strings"

// MatchHost reports whether host satisfies the host portion of a wildcard
// base-domain pattern.  Literal fragments must appear in order with every
// wildcard slot consuming at least one character.
func MatchHost(pattern, host string) bool {
	if i := strings.IndexByte(pattern, '/'); i != -1 {
		pattern = pattern[:i]
	}
	fragments := strings.Split(pattern, Wildcard)
	if len(fragments) == 1 {
		return pattern == host
	}

	if !strings.HasPrefix(host, fragments[0]) {
		return false
	}
	rest := host[len(fragments[0]):]

	for i, frag := range fragments[1:] {
		if frag == "" {
			// Trailing wildcard: anything non-empty satisfies it.
			return rest != ""
		}
		last := i == len(fragments)-2
		if last {
			if !strings.HasSuffix(rest, frag) {
				return false
			}
			return len(rest) > len(frag)
		}
		idx := strings.Index(rest, frag)
		if idx < 1 {
			return false
		}
		rest = rest[idx+len(frag):]
	}
	return rest == ""
}
