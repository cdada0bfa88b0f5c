package asm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a function has no start marker or bare label,
// or when its end cannot be reached.
var ErrNotFound = errors.New("function not found")

// CloseKind records how the end of a resolved range was decided.
type CloseKind int

const (
	// CloseSize: the function's own size directive.
	CloseSize CloseKind = iota
	// CloseEpilogue: an alignment or size directive found walking back from the next function.
	CloseEpilogue
	// CloseReturn: a return instruction found walking back from the next function.
	CloseReturn
	// ClosePreceding: the line right before the next function's start marker.
	ClosePreceding
)

func (k CloseKind) String() string {
	switch k {
	case CloseSize:
		return "size"
	case CloseEpilogue:
		return "epilogue"
	case CloseReturn:
		return "return"
	case ClosePreceding:
		return "preceding"
	default:
		return fmt.Sprintf("CloseKind(%d)", int(k))
	}
}

// Range is an inclusive line range.
type Range struct {
	Start int
	End   int
	Close CloseKind
}

// Len returns the number of lines covered.
func (r Range) Len() int { return r.End - r.Start + 1 }

// terminator is one tier of the end-of-function search used when the next
// function begins before the current one is closed. next is the index of the
// next start marker; find returns the chosen end line.
type terminator struct {
	kind CloseKind
	find func(src *Source, start, next int) (int, bool)
}

// terminators are tried in order; the last tier always matches.
var terminators = []terminator{
	{kind: CloseEpilogue, find: epilogueTerminator},
	{kind: CloseReturn, find: returnTerminator},
	{kind: ClosePreceding, find: precedingTerminator},
}

// epilogueTerminator walks back from the line before next and takes the first
// alignment or size directive, unless a return instruction comes first.
func epilogueTerminator(src *Source, start, next int) (int, bool) {
	for i := next - 1; i >= start; i-- {
		line := src.Line(i)
		if IsAlign(line) || IsSize(line) {
			return i, true
		}
		if IsReturn(line) {
			return 0, false
		}
	}
	return 0, false
}

// returnTerminator walks back from the line before next and settles on the
// first return instruction, unless an alignment or size directive comes first.
func returnTerminator(src *Source, start, next int) (int, bool) {
	for i := next - 1; i >= start; i-- {
		line := src.Line(i)
		if IsAlign(line) || IsSize(line) {
			return 0, false
		}
		if IsReturn(line) {
			return afterReturn(src, i, next), true
		}
	}
	return 0, false
}

// afterReturn looks past a return instruction for trailing padding that
// closes the function. Without one the return line itself is the end.
func afterReturn(src *Source, ret, next int) int {
	for j := ret + 1; j < next; j++ {
		line := src.Line(j)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if IsAlign(line) || IsSize(line) {
			return j
		}
		break
	}
	return ret
}

func precedingTerminator(_ *Source, _, next int) (int, bool) {
	return next - 1, true
}

// Resolve locates the function called name in src.
//
// The range starts at the first start marker for name, or at the first bare
// label for name when no start marker exists. It ends at the function's own
// size directive. If another function starts first, the end is chosen by the
// terminator tiers. Reaching the end of the listing with the function still
// open yields ErrNotFound.
func Resolve(src *Source, name string) (Range, error) {
	start := findStart(src, name)
	if start < 0 {
		return Range{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	for i := start + 1; i < src.Len(); i++ {
		line := src.Line(i)
		if ClosesFunction(line, name) {
			return Range{Start: start, End: i, Close: CloseSize}, nil
		}
		if IsStart(line) {
			end, kind := terminate(src, start, i)
			return Range{Start: start, End: end, Close: kind}, nil
		}
	}
	return Range{}, fmt.Errorf("%w: %s is never closed", ErrNotFound, name)
}

func findStart(src *Source, name string) int {
	for i := 0; i < src.Len(); i++ {
		if StartsFunction(src.Line(i), name) {
			return i
		}
	}
	for i := 0; i < src.Len(); i++ {
		if LabelsFunction(src.Line(i), name) {
			return i
		}
	}
	return -1
}

func terminate(src *Source, start, next int) (int, CloseKind) {
	for _, t := range terminators {
		if end, ok := t.find(src, start, next); ok {
			return end, t.kind
		}
	}
	// unreachable: precedingTerminator always matches
	return next - 1, ClosePreceding
}

// Locate resolves name in text and returns its record.
func Locate(text, name string) (FunctionRecord, error) {
	src := NewSource(text)
	r, err := Resolve(src, name)
	if err != nil {
		return FunctionRecord{}, err
	}
	return FunctionRecord{
		Name:      name,
		StartLine: r.Start,
		EndLine:   r.End,
		Code:      src.Join(r.Start, r.End),
	}, nil
}
