// internal/localization/localization_test.go
//
// Run: go test ./internal/localization -v

package localization

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in       string
		language string
		country  string
		code     string
	}{
		{"de", "de", "", "de"},
		{"de_at", "de", "at", "de_at"},
		{"de-AT", "de", "at", "de_at"},
		{"EN", "en", "", "en"},
		{" fr_CA ", "fr", "ca", "fr_ca"},
	}
	for _, c := range cases {
		loc, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if loc.Language != c.language || loc.Country != c.country {
			t.Errorf("Parse(%q) = %+v, want %s/%s", c.in, loc, c.language, c.country)
		}
		if loc.LocaleCode() != c.code {
			t.Errorf("Parse(%q).LocaleCode() = %q, want %q", c.in, loc.LocaleCode(), c.code)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, in := range []string{"", "  ", "de_at_x", "de_", "_at"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestParseList(t *testing.T) {
	locs, err := ParseList("en, de_at,,fr")
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(locs) != 3 {
		t.Fatalf("len = %d, want 3", len(locs))
	}
	if locs[1].LocaleCode() != "de_at" {
		t.Errorf("locs[1] = %q, want de_at", locs[1].LocaleCode())
	}
}

func TestParseList_PropagatesError(t *testing.T) {
	if _, err := ParseList("en,de_at_x"); err == nil {
		t.Fatal("expected error for malformed entry")
	}
}

func TestIsZero(t *testing.T) {
	if !(Localization{}).IsZero() {
		t.Error("zero value should report IsZero")
	}
	if New("de", "").IsZero() {
		t.Error("de should not report IsZero")
	}
}
