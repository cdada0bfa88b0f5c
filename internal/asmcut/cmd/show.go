package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"asmcut/internal/asm"
	"asmcut/internal/asmcut/styles"
	"asmcut/internal/ui/colorize"
)

type showOptions struct {
	raw      bool
	markdown bool
	width    int
}

var showCmd = &cobra.Command{
	Use:   "show [file] [function]",
	Short: "Print one function of a module",
	Long: `Print the lines of one function. The function ends at its own .size
directive; without one, the end is taken from the alignment directive, size
directive or return instruction preceding the next function.`,
	Example: `
# Highlighted, with line numbers
asmcut show code.s func_80001234

# Verbatim text for piping
asmcut show --raw code.s func_80001234 > func.s
  `,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readModule(cmd.Context(), cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		opts := showOptions{width: 80}
		opts.raw, _ = cmd.Flags().GetBool("raw")
		opts.markdown, _ = cmd.Flags().GetBool("markdown")
		return runShow(cmd.OutOrStdout(), highlighter(), text, args[1], opts)
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "Print the function text verbatim")
	showCmd.Flags().BoolP("markdown", "m", false, "Render a markdown report with references")
}

func runShow(w io.Writer, hl colorize.Highlighter, text, name string, opts showOptions) error {
	src := asm.NewSource(text)
	r, err := asm.Resolve(src, name)
	if err != nil {
		return err
	}
	code := src.Join(r.Start, r.End)

	switch {
	case opts.raw:
		fmt.Fprintln(w, code)
	case opts.markdown:
		report := functionMarkdown(name, r, code)
		rendered, err := styles.GetMarkdownRenderer(opts.width, hl.NoColor).Render(report)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		fmt.Fprint(w, rendered)
	default:
		fmt.Fprintf(w, "; %s  lines %d-%d  (%d lines, closed by %s)\n", name, r.Start, r.End, r.Len(), r.Close)
		fmt.Fprint(w, hl.Numbered(code, r.Start))
	}
	return nil
}

// functionMarkdown builds the report shown by show --markdown and browse.
func functionMarkdown(name string, r asm.Range, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	if d := demangled(name); d != "" {
		fmt.Fprintf(&b, "`%s`\n\n", d)
	}
	fmt.Fprintf(&b, "Lines **%d-%d** (%d lines), closed by *%s*.\n\n", r.Start, r.End, r.Len(), r.Close)
	fmt.Fprintf(&b, "```asm\n%s\n```\n\n", strings.ReplaceAll(code, "\r", ""))

	refs := asm.SortedCallReferences(code)
	b.WriteString("## References\n\n")
	if len(refs) == 0 {
		b.WriteString("None.\n")
	}
	for _, ref := range refs {
		fmt.Fprintf(&b, "- `%s`\n", ref)
	}
	return b.String()
}
