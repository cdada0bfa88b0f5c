package colorize

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

const listing = "glabel f\n/* 000 */ addiu $sp, $sp, -0x18\n    jr $ra\n.size f, .-f"

func TestAssemblyNoColor(t *testing.T) {
	out, err := Highlighter{NoColor: true}.Assembly(listing)
	if err != nil {
		t.Fatal(err)
	}
	if out != listing {
		t.Errorf("NoColor output changed the listing: %q", out)
	}
}

func TestAssemblyKeepsText(t *testing.T) {
	out, err := Highlighter{}.Assembly(listing)
	if err != nil {
		t.Fatal(err)
	}
	if got := ansi.Strip(out); strings.TrimSuffix(got, "\n") != listing {
		t.Errorf("stripped output = %q, want %q", got, listing)
	}
}

func TestNumbered(t *testing.T) {
	out := Highlighter{NoColor: true}.Numbered("glabel f\nnop\n.size f, .-f", 8)
	want := " 8  glabel f\n 9  nop\n10  .size f, .-f\n"
	if out != want {
		t.Errorf("Numbered = %q, want %q", out, want)
	}
}

func TestStyleRegistered(t *testing.T) {
	if ListingDark == nil || getListingStyle().Name != ListingDarkName {
		t.Errorf("style %q not registered", ListingDarkName)
	}
}
