// internal/locator/slug_test.go
//
// Unit-tests for slug and path helpers.
//
// Run: go test ./internal/locator -v

package locator

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Widget   A  ", "widget-a"},
		{"Über müde Bären", "uber-mude-baren"},
		{"Café & Crème!", "cafe-creme"},
		{"already-kebab", "already-kebab"},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugify_LengthCap(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcde "
	}
	got := Slugify(long)
	if len(got) > 100 {
		t.Fatalf("slug length = %d, want <= 100", len(got))
	}
	if got[len(got)-1] == '-' {
		t.Fatalf("slug ends with dash: %q", got)
	}
}

// An empty ancestor segment collapses away entirely.
func TestJoinSegments_Collapsing(t *testing.T) {
	if got := JoinSegments("", "goodbye"); got != "goodbye" {
		t.Fatalf("JoinSegments = %q, want %q", got, "goodbye")
	}
	if got := JoinSegments("products", "", "widget-a"); got != "products/widget-a" {
		t.Fatalf("JoinSegments = %q, want %q", got, "products/widget-a")
	}
}

func TestJoinPath(t *testing.T) {
	cases := []struct {
		parent, segment, want string
	}{
		{"", "", "/"},
		{"", "hello", "/hello"},
		{"/products", "", "/products"},
		{"/products", "widget-a", "/products/widget-a"},
		{"products/", "/widget-a", "/products/widget-a"},
	}
	for _, c := range cases {
		if got := JoinPath(c.parent, c.segment); got != c.want {
			t.Errorf("JoinPath(%q, %q) = %q, want %q", c.parent, c.segment, got, c.want)
		}
	}
}
