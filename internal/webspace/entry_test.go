// internal/webspace/entry_test.go
//
// Run: go test ./internal/webspace -v

package webspace

import (
	"testing"

	"github.com/yanizio/locus/internal/localization"
)

func demoWebspace() *Webspace {
	return &Webspace{
		Meta: Record{Key: "demo", Host: "demo.example"},
		Localizations: []localization.Localization{
			localization.New("en", "us"),
			localization.New("de", "at"),
			localization.New("de", ""),
		},
	}
}

func TestMatchLocalization(t *testing.T) {
	ws := demoWebspace()

	cases := []struct {
		language string
		country  string
		want     string
	}{
		{"de", "at", "de_at"}, // exact
		{"de", "ch", "de_at"}, // first configured German wins
		{"fr", "at", "de_at"}, // country fallback
		{"fr", "", "en_us"},   // default
		{"", "", "en_us"},     // no hints at all
	}
	for _, c := range cases {
		got := ws.MatchLocalization(c.language, c.country)
		if got.LocaleCode() != c.want {
			t.Errorf("MatchLocalization(%q, %q) = %q, want %q",
				c.language, c.country, got.LocaleCode(), c.want)
		}
	}
}

func TestMatchingBaseDomains(t *testing.T) {
	ws := &Webspace{BaseDomains: []string{"*.demo.example", "shop.io"}}

	got := ws.MatchingBaseDomains("test-1.demo.example")
	if len(got) != 1 || got[0] != "*.demo.example" {
		t.Fatalf("MatchingBaseDomains = %v, want [*.demo.example]", got)
	}
	if got := ws.MatchingBaseDomains("shop.io"); len(got) != 1 {
		t.Fatalf("exact pattern did not match: %v", got)
	}
	// The bare apex never satisfies a wildcard pattern.
	if got := ws.MatchingBaseDomains("demo.example"); got != nil {
		t.Fatalf("MatchingBaseDomains = %v, want none", got)
	}
}

func TestDefaultLocalization_Empty(t *testing.T) {
	ws := &Webspace{}
	if got := ws.DefaultLocalization().LocaleCode(); got != "en" {
		t.Errorf("DefaultLocalization = %q, want en", got)
	}
}
