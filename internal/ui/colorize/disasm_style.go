package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// ListingDarkName is the registered name of ListingDark.
const ListingDarkName = "listing-dark"

// ListingDark is a custom style for assembly listings
var ListingDark = styles.Register(chroma.MustNewStyle(ListingDarkName, chroma.StyleEntries{
	chroma.Text:           "#FFFFFF",    // Default text white
	chroma.Background:     "bg:#1e1e1e", // Dark background
	chroma.Comment:        "#6A6A6A",    // Offset comments (/* 000 */) dimmed
	chroma.CommentPreproc: "#C586C0",    // Directives (.size, .align) in violet

	chroma.Keyword:       "#FFFFFF", // Instructions in white
	chroma.KeywordPseudo: "#C586C0", // Pseudo instructions match directives
	chroma.Name:          "#7C9C9D", // Registers in teal
	chroma.NameBuiltin:   "#7C9C9D",
	chroma.NameVariable:  "#7C9C9D",
	chroma.NameAttribute: "#C586C0", // gas directives

	chroma.LiteralNumber:        "#FF5F87", // Numbers in pink
	chroma.LiteralNumberHex:     "#FF5F87",
	chroma.LiteralNumberBin:     "#FF5F87",
	chroma.LiteralNumberOct:     "#FF5F87",
	chroma.LiteralNumberInteger: "#FF5F87",
	chroma.LiteralNumberFloat:   "#FF5F87",

	chroma.NameLabel:    "#FFD700", // Labels in gold
	chroma.NameFunction: "#FFFFFF", // gas tokenizes mnemonics as functions

	chroma.Operator:    "#FFFFFF",
	chroma.Punctuation: "#FFFFFF",

	chroma.String: "#EACD53", // Strings in golden (234, 205, 83)
}))
