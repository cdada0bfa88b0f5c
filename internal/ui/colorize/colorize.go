// Package colorize highlights assembly listing text for terminal output.
package colorize

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// getAssemblyLexer returns an appropriate assembly lexer with fallbacks
func getAssemblyLexer() chroma.Lexer {
	// GNU as syntax first: glabel/.size listings are gas-style
	candidates := []string{"gas", "GAS", "armasm", "nasm"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getListingStyle returns the listing style with fallbacks
func getListingStyle() *chroma.Style {
	candidates := []string{ListingDarkName, "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Highlighter renders listing text, optionally without color.
type Highlighter struct {
	NoColor bool
}

// Assembly highlights code. On any lexer or formatter failure the code is
// returned unchanged along with the error.
func (h Highlighter) Assembly(code string) (string, error) {
	if h.NoColor {
		return code, nil
	}

	lexer := getAssemblyLexer()
	if lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getListingStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// Numbered highlights code and prefixes each line with its zero-based line
// number in the module, starting at first.
func (h Highlighter) Numbered(code string, first int) string {
	colored, err := h.Assembly(code)
	if err != nil {
		colored = code
	}
	lines := strings.Split(strings.TrimSuffix(colored, "\n"), "\n")
	width := len(fmt.Sprint(first + len(lines) - 1))

	var b strings.Builder
	for i, line := range lines {
		num := fmt.Sprintf("%*d", width, first+i)
		if !h.NoColor {
			// Line numbers in gray (79, 79, 79)
			num = fmt.Sprintf("\033[38;2;79;79;79m%s\033[0m", num)
		}
		fmt.Fprintf(&b, "%s  %s\n", num, strings.TrimSuffix(line, "\r"))
	}
	return b.String()
}
