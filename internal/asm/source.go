// Package asm segments raw assembly listings into functions.
// It classifies listing lines against a small marker vocabulary, resolves the
// line range of a single named function, catalogs every function of a module
// and extracts the symbols a function refers to.
package asm

import (
	"regexp"
	"strings"
)

// MarkerKind identifies the category a listing line falls into.
type MarkerKind int

const (
	Plain MarkerKind = iota
	StartMarker
	SizeMarker
	AlignMarker
	ReturnMarker
	BareLabel
)

func (k MarkerKind) String() string {
	switch k {
	case StartMarker:
		return "start"
	case SizeMarker:
		return "size"
	case AlignMarker:
		return "align"
	case ReturnMarker:
		return "return"
	case BareLabel:
		return "label"
	default:
		return "plain"
	}
}

// Marker is the classification of one line. Name is set for start, size and
// bare label markers.
type Marker struct {
	Kind MarkerKind
	Name string
}

const (
	alignDirective = ".align 3"
	returnPrefix   = "jr "
)

var (
	startRe = regexp.MustCompile(`\bglabel\s+(\w+)`)
	sizeRe  = regexp.MustCompile(`\.size\s+(\w+)`)
	labelRe = regexp.MustCompile(`^(\w+):`)
)

// Classify returns the marker for a single line. Start and size markers win
// over the other categories; a line never carries more than one marker.
func Classify(line string) Marker {
	t := strings.TrimSpace(line)
	if m := startRe.FindStringSubmatch(t); m != nil {
		return Marker{Kind: StartMarker, Name: m[1]}
	}
	if m := sizeRe.FindStringSubmatch(t); m != nil {
		return Marker{Kind: SizeMarker, Name: m[1]}
	}
	if t == alignDirective {
		return Marker{Kind: AlignMarker}
	}
	if strings.HasPrefix(t, returnPrefix) {
		return Marker{Kind: ReturnMarker}
	}
	if m := labelRe.FindStringSubmatch(t); m != nil {
		return Marker{Kind: BareLabel, Name: m[1]}
	}
	return Marker{Kind: Plain}
}

// IsStart reports whether line declares the start of any function.
func IsStart(line string) bool {
	return startRe.MatchString(strings.TrimSpace(line))
}

// IsSize reports whether line is a size directive for any function.
func IsSize(line string) bool {
	return sizeRe.MatchString(strings.TrimSpace(line))
}

// IsAlign reports whether line is exactly the alignment directive.
func IsAlign(line string) bool {
	return strings.TrimSpace(line) == alignDirective
}

// IsReturn reports whether line is a register jump (return) instruction.
func IsReturn(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), returnPrefix)
}

// StartsFunction reports whether line is the start marker for name.
func StartsFunction(line, name string) bool {
	m := startRe.FindStringSubmatch(strings.TrimSpace(line))
	return m != nil && m[1] == name
}

// ClosesFunction reports whether line is the size marker for name.
func ClosesFunction(line, name string) bool {
	m := sizeRe.FindStringSubmatch(strings.TrimSpace(line))
	return m != nil && m[1] == name
}

// LabelsFunction reports whether line is a bare label for name.
func LabelsFunction(line, name string) bool {
	m := labelRe.FindStringSubmatch(strings.TrimSpace(line))
	return m != nil && m[1] == name
}

// Source is an immutable snapshot of a listing split into lines.
type Source struct {
	lines   []string
	newline string
}

// NewSource splits text into lines. \r\n, \r and \n all end a line. The first
// terminator seen becomes the separator used when joining ranges back.
func NewSource(text string) *Source {
	return &Source{
		lines:   splitLines(text),
		newline: DetectNewline(text),
	}
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, text[start:])
}

// DetectNewline returns the first line terminator in text, or "\n" if there is none.
func DetectNewline(text string) string {
	i := strings.IndexAny(text, "\r\n")
	if i < 0 || text[i] == '\n' {
		return "\n"
	}
	if i+1 < len(text) && text[i+1] == '\n' {
		return "\r\n"
	}
	return "\r"
}

// Len returns the number of lines.
func (s *Source) Len() int { return len(s.lines) }

// Line returns line i without its terminator.
func (s *Source) Line(i int) string { return s.lines[i] }

// Newline returns the separator used by Join.
func (s *Source) Newline() string { return s.newline }

// Join returns the verbatim text of lines start..end inclusive.
func (s *Source) Join(start, end int) string {
	return strings.Join(s.lines[start:end+1], s.newline)
}

// Markers classifies every line.
func (s *Source) Markers() []Marker {
	out := make([]Marker, len(s.lines))
	for i, l := range s.lines {
		out[i] = Classify(l)
	}
	return out
}
