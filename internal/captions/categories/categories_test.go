package categories

import (
	"sort"
	"strings"
	"testing"
)

func TestNamesSortedAndKnown(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("expected at least one category")
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("names must be sorted: %v", names)
	}
	for _, name := range names {
		if !Known(name) {
			t.Fatalf("listed category %q not known", name)
		}
	}
}

func TestHashtagsWellFormed(t *testing.T) {
	for _, name := range Names() {
		tags := Hashtags(name)
		if len(tags) == 0 {
			t.Fatalf("category %q has no hashtags", name)
		}
		for _, tag := range tags {
			if !strings.HasPrefix(tag, "#") {
				t.Fatalf("category %q tag %q missing # prefix", name, tag)
			}
			if strings.ContainsAny(tag, " \t") {
				t.Fatalf("category %q tag %q contains whitespace", name, tag)
			}
		}
	}
}

func TestHashtagsUnknownCategory(t *testing.T) {
	if tags := Hashtags("astronomy"); tags != nil {
		t.Fatalf("expected nil for unknown category, got %v", tags)
	}
	if Known("astronomy") {
		t.Fatal("unknown category reported as known")
	}
}
