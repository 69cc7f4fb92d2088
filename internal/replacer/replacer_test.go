// internal/replacer/replacer_test.go
//
// Unit-tests for placeholder substitution.
//
// Run: go test ./internal/replacer -v

package replacer

import "testing"

func TestReplace_AllOccurrences(t *testing.T) {
	got := Replace("{host}/a/{host}", "host", "lumen.io")
	if got != "lumen.io/a/lumen.io" {
		t.Fatalf("Replace = %q, want %q", got, "lumen.io/a/lumen.io")
	}
}

func TestReplace_AbsentTokenPassesThrough(t *testing.T) {
	const pattern = "news/{language}"
	if got := ReplaceCountry(pattern, "at"); got != pattern {
		t.Fatalf("absent token mutated pattern: %q", got)
	}
}

func TestWrappers(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"host", ReplaceHost("{host}/news", "lumen.io"), "lumen.io/news"},
		{"localization", ReplaceLocalization("{host}/{localization}", "de_at"), "{host}/de_at"},
		{"language", ReplaceLanguage("{language}/{country}", "de"), "de/{country}"},
		{"country", ReplaceCountry("{language}/{country}", "at"), "{language}/at"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, c.got, c.want)
		}
	}
}

func TestHas(t *testing.T) {
	if !Has("a/{localization}/b", TokenLocalization) {
		t.Fatal("Has = false, want true")
	}
	if Has("a/b", TokenLocalization) {
		t.Fatal("Has = true, want false")
	}
}
