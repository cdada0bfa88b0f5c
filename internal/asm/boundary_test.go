package asm

import (
	"errors"
	"strings"
	"testing"
)

func lines(l ...string) string { return strings.Join(l, "\n") }

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		target string
		want   Range
	}{
		{
			name: "own size marker",
			text: lines(
				"glabel f",
				"/* 000 */ addiu $sp, $sp, -0x18",
				"/* 004 */ jal helper",
				"/* 008 */ nop",
				".size f, .-f",
				"glabel g",
				"    jr $ra",
				".size g, .-g",
			),
			target: "f",
			want:   Range{Start: 0, End: 4, Close: CloseSize},
		},
		{
			name: "size marker wins over later functions",
			text: lines(
				"glabel g",
				"nop",
				".size g, .-g",
				"glabel f",
				"    jr $ra",
				"nop",
				".size f, .-f",
			),
			target: "f",
			want:   Range{Start: 3, End: 6, Close: CloseSize},
		},
		{
			name: "alignment before next function",
			text: lines(
				"glabel f",
				"addiu $sp, $sp, -8",
				"    jr $ra",
				"nop",
				".align 3",
				"glabel g",
				"    jr $ra",
				".size g, .-g",
			),
			target: "f",
			want:   Range{Start: 0, End: 4, Close: CloseEpilogue},
		},
		{
			name: "foreign size directive before next function",
			text: lines(
				"glabel f",
				"nop",
				".size f_data, 4",
				"nop",
				"glabel g",
			),
			target: "f",
			want:   Range{Start: 0, End: 2, Close: CloseEpilogue},
		},
		{
			name: "return instruction before next function",
			text: lines(
				"glabel f",
				"addiu $sp, $sp, -8",
				"    jr $ra",
				"nop",
				"",
				"glabel g",
				"nop",
			),
			target: "f",
			want:   Range{Start: 0, End: 2, Close: CloseReturn},
		},
		{
			name: "return closer than alignment",
			text: lines(
				"glabel f",
				".align 3",
				"nop",
				"    jr $ra",
				"nop",
				"glabel g",
			),
			target: "f",
			want:   Range{Start: 0, End: 3, Close: CloseReturn},
		},
		{
			name: "no terminator before next function",
			text: lines(
				"glabel f",
				"addiu $sp, $sp, -8",
				"sw $ra, 0($sp)",
				"glabel g",
				"nop",
				".size g, .-g",
			),
			target: "f",
			want:   Range{Start: 0, End: 2, Close: ClosePreceding},
		},
		{
			name: "bare label fallback",
			text: lines(
				"func_a:",
				"addiu $sp, $sp, -8",
				"    jr $ra",
				"glabel g",
				"nop",
			),
			target: "func_a",
			want:   Range{Start: 0, End: 2, Close: CloseReturn},
		},
		{
			name: "start marker preferred over earlier label",
			text: lines(
				"f:",
				"nop",
				"glabel f",
				"nop",
				".size f, .-f",
			),
			target: "f",
			want:   Range{Start: 2, End: 4, Close: CloseSize},
		},
		{
			name: "duplicate names resolve to the first",
			text: lines(
				"glabel f",
				"addiu $v0, $zero, 1",
				".size f, .-f",
				"glabel f",
				"addiu $v0, $zero, 2",
				".size f, .-f",
			),
			target: "f",
			want:   Range{Start: 0, End: 2, Close: CloseSize},
		},
		{
			name: "next start marker directly after",
			text: lines(
				"glabel f",
				"glabel g",
			),
			target: "f",
			want:   Range{Start: 0, End: 0, Close: ClosePreceding},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(NewSource(tt.text), tt.target)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.target, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.target, got, tt.want)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		target string
	}{
		{"empty buffer", "", "missing"},
		{"no marker", lines("glabel f", "nop", ".size f, .-f"), "missing"},
		{"partial name", lines("glabel foo", "nop", ".size foo, .-foo"), "fo"},
		{"never closed", lines("glabel f", "nop", "    jr $ra"), "f"},
		{"label never closed", lines("f:", "nop"), "f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(NewSource(tt.text), tt.target)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Resolve(%q) error = %v, want ErrNotFound", tt.target, err)
			}
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	src := NewSource(lines("glabel f", "nop", "    jr $ra", "nop", "glabel g", ".size g, .-g"))
	first, err := Resolve(src, "f")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := Resolve(src, "f")
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("run %d: %+v != %+v", i, again, first)
		}
	}
}

func TestTerminatorTiers(t *testing.T) {
	// next start marker sits on line 6 in every case
	tests := []struct {
		name      string
		text      string
		epilogue  int
		returnEnd int
	}{
		{
			name:      "alignment only",
			text:      lines("glabel f", "nop", "nop", ".align 3", "nop", "nop", "glabel g"),
			epilogue:  3,
			returnEnd: -1,
		},
		{
			name:      "return only",
			text:      lines("glabel f", "nop", "  jr $ra", "nop", "", "", "glabel g"),
			epilogue:  -1,
			returnEnd: 2,
		},
		{
			name:      "alignment after return",
			text:      lines("glabel f", "nop", "  jr $ra", "nop", ".align 3", "", "glabel g"),
			epilogue:  4,
			returnEnd: -1,
		},
		{
			name:      "return after alignment",
			text:      lines("glabel f", ".align 3", "nop", "  jr $ra", "nop", "", "glabel g"),
			epilogue:  -1,
			returnEnd: 3,
		},
		{
			name:      "neither",
			text:      lines("glabel f", "nop", "nop", "nop", "nop", "nop", "glabel g"),
			epilogue:  -1,
			returnEnd: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSource(tt.text)
			end, ok := epilogueTerminator(src, 0, 6)
			if got := tierResult(end, ok); got != tt.epilogue {
				t.Errorf("epilogue tier = %d, want %d", got, tt.epilogue)
			}
			end, ok = returnTerminator(src, 0, 6)
			if got := tierResult(end, ok); got != tt.returnEnd {
				t.Errorf("return tier = %d, want %d", got, tt.returnEnd)
			}
			end, ok = precedingTerminator(src, 0, 6)
			if !ok || end != 5 {
				t.Errorf("preceding tier = %d, %v, want 5, true", end, ok)
			}
		})
	}
}

func tierResult(end int, ok bool) int {
	if !ok {
		return -1
	}
	return end
}

func TestAfterReturn(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"delay slot", lines("  jr $ra", "nop", "glabel g"), 0},
		{"blank then padding", lines("  jr $ra", "", ".align 3", "glabel g"), 2},
		{"only blanks", lines("  jr $ra", "", "", "glabel g"), 0},
		{"size after blank", lines("  jr $ra", "  ", ".size f, .-f", "glabel g"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSource(tt.text)
			if got := afterReturn(src, 0, src.Len()-1); got != tt.want {
				t.Errorf("afterReturn = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	text := lines(
		"glabel f",
		"/* 000 */ jal helper",
		".size f, .-f",
		"glabel g",
		"nop",
		".size g, .-g",
	)
	rec, err := Locate(text, "g")
	if err != nil {
		t.Fatal(err)
	}
	if rec.StartLine != 3 || rec.EndLine != 5 {
		t.Errorf("range = %d..%d, want 3..5", rec.StartLine, rec.EndLine)
	}
	if want := lines("glabel g", "nop", ".size g, .-g"); rec.Code != want {
		t.Errorf("code = %q, want %q", rec.Code, want)
	}

	if _, err := Locate(text, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Locate(missing) error = %v, want ErrNotFound", err)
	}
}
