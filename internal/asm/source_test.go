package asm

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Marker
	}{
		{"start marker", "glabel func_80001234", Marker{Kind: StartMarker, Name: "func_80001234"}},
		{"indented start marker", "\t glabel main  ", Marker{Kind: StartMarker, Name: "main"}},
		{"size marker", ".size func_80001234, . - func_80001234", Marker{Kind: SizeMarker, Name: "func_80001234"}},
		{"align marker", "  .align 3", Marker{Kind: AlignMarker}},
		{"other alignment is plain", ".align 4", Marker{Kind: Plain}},
		{"return marker", "/* 0010 */ jr $ra", Marker{Kind: Plain}},
		{"bare return marker", "    jr $ra", Marker{Kind: ReturnMarker}},
		{"jalr is not a return", "jalr $t9", Marker{Kind: Plain}},
		{"bare label", "loop_1:", Marker{Kind: BareLabel, Name: "loop_1"}},
		{"label with instruction", "entry: addiu $sp, $sp, -8", Marker{Kind: BareLabel, Name: "entry"}},
		{"local dot label", ".L80001234:", Marker{Kind: Plain}},
		{"blank", "", Marker{Kind: Plain}},
		{"instruction", "addiu $sp, $sp, -0x18", Marker{Kind: Plain}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.line); got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestNamedMarkers(t *testing.T) {
	if !StartsFunction("glabel foo", "foo") {
		t.Error("expected glabel foo to start foo")
	}
	if StartsFunction("glabel foo", "fo") {
		t.Error("glabel foo must not start fo")
	}
	if StartsFunction("glabel foobar", "foo") {
		t.Error("glabel foobar must not start foo")
	}
	if !ClosesFunction(".size foo, .-foo", "foo") {
		t.Error("expected .size foo to close foo")
	}
	if ClosesFunction(".size foo_data, 4", "foo") {
		t.Error(".size foo_data must not close foo")
	}
	if !LabelsFunction("foo:", "foo") {
		t.Error("expected foo: to label foo")
	}
	if LabelsFunction("foo_end:", "foo") {
		t.Error("foo_end: must not label foo")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []string
		newline string
	}{
		{"empty", "", []string{""}, "\n"},
		{"no terminator", "nop", []string{"nop"}, "\n"},
		{"lf", "a\nb", []string{"a", "b"}, "\n"},
		{"trailing lf", "a\nb\n", []string{"a", "b", ""}, "\n"},
		{"crlf", "a\r\nb\r\n", []string{"a", "b", ""}, "\r\n"},
		{"cr", "a\rb", []string{"a", "b"}, "\r"},
		{"mixed", "a\r\nb\nc\rd", []string{"a", "b", "c", "d"}, "\r\n"},
		{"blank lines", "a\n\n\nb", []string{"a", "", "", "b"}, "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSource(tt.text)
			got := make([]string, src.Len())
			for i := range got {
				got[i] = src.Line(i)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lines = %q, want %q", got, tt.want)
			}
			if src.Newline() != tt.newline {
				t.Errorf("newline = %q, want %q", src.Newline(), tt.newline)
			}
		})
	}
}

func TestSourceJoin(t *testing.T) {
	src := NewSource("glabel f\r\nnop\r\n.size f, .-f\r\n")
	if got, want := src.Join(0, 2), "glabel f\r\nnop\r\n.size f, .-f"; got != want {
		t.Errorf("Join = %q, want %q", got, want)
	}
	if got := src.Join(1, 1); got != "nop" {
		t.Errorf("Join single = %q, want %q", got, "nop")
	}
}

func TestMarkers(t *testing.T) {
	src := NewSource("glabel f\n  jr $ra\n.align 3\n.size f, .-f")
	got := src.Markers()
	want := []MarkerKind{StartMarker, ReturnMarker, AlignMarker, SizeMarker}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("line %d kind = %s, want %s", i, got[i].Kind, k)
		}
	}
}
