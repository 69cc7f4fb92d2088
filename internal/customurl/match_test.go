// internal/customurl/match_test.go
//
// Run: go test ./internal/customurl -v

package customurl

import "testing"

func TestMatchHost(t *testing.T) {
	cases := []struct {
		pattern string
		host    string
		want    bool
	}{
		{"*.lumen.io", "test-1.lumen.io", true},
		{"*.lumen.io", "a.b.lumen.io", true},
		{"*.lumen.io", "lumen.io", false},        // wildcard must consume something
		{"*.lumen.io", "a.lumen.io.evil", false}, // suffix spoofing
		{"*.lumen.io/test/*", "test-1.lumen.io", true}, // path fragments ignored
		{"lumen.io", "lumen.io", true},
		{"lumen.io", "www.lumen.io", false},
		{"www.*.io", "www.shop.io", true},
		{"www.*.io", "www..io", false},
		{"shop.*", "shop.lumen.io", true},
		{"shop.*", "shop.", false},
	}
	for _, c := range cases {
		if got := MatchHost(c.pattern, c.host); got != c.want {
			t.Errorf("MatchHost(%q, %q) = %v, want %v", c.pattern, c.host, got, c.want)
		}
	}
}
