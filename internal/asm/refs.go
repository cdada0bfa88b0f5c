package asm

import (
	"regexp"
	"sort"
)

// refMatchers each capture a referenced symbol name in group 1.
var refMatchers = []*regexp.Regexp{
	// jal target
	regexp.MustCompile(`\bjal\s+(\w+)`),
	// @ =symbol data annotations
	regexp.MustCompile(`@ =(\w+)`),
	// la/add*/move* ..., =symbol, also behind an offset comment
	regexp.MustCompile(`\b(?:la|add\w*|move\w*)\s.*?=(\w+)`),
}

// CallReferences returns the distinct symbol names referenced by text through
// calls, data annotations and address loads. Order is unspecified.
func CallReferences(text string) []string {
	seen := make(map[string]struct{})
	var refs []string
	for _, line := range splitLines(text) {
		for _, re := range refMatchers {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				if _, ok := seen[m[1]]; ok {
					continue
				}
				seen[m[1]] = struct{}{}
				refs = append(refs, m[1])
			}
		}
	}
	return refs
}

// SortedCallReferences is CallReferences in lexical order, for display.
func SortedCallReferences(text string) []string {
	refs := CallReferences(text)
	sort.Strings(refs)
	return refs
}
