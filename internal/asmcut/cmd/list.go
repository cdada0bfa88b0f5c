package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ianlancetaylor/demangle"
	"github.com/spf13/cobra"

	"asmcut/internal/asm"
)

// FunctionInfo is one catalog entry in JSON output.
type FunctionInfo struct {
	Name      string `json:"name"`
	Demangled string `json:"demangled,omitempty"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Lines     int    `json:"lines"`
}

var listCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List the functions of a module in file order",
	Example: `
# Table output
asmcut list code.s

# JSON output read from stdin
cat code.s | asmcut list -j -
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readModule(cmd.Context(), cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		return runList(cmd.OutOrStdout(), text, asJSON)
	},
}

func init() {
	listCmd.Flags().BoolP("json", "j", false, "Output the catalog as JSON")
}

// demangled returns the demangled form of name, or "" if name is not a
// mangled C++ symbol.
func demangled(name string) string {
	d := demangle.Filter(name, demangle.NoClones)
	if d == name {
		return ""
	}
	return d
}

func catalogInfo(records []asm.FunctionRecord) []FunctionInfo {
	out := make([]FunctionInfo, 0, len(records))
	for _, r := range records {
		out = append(out, FunctionInfo{
			Name:      r.Name,
			Demangled: demangled(r.Name),
			StartLine: r.StartLine,
			EndLine:   r.EndLine,
			Lines:     r.Lines(),
		})
	}
	return out
}

func runList(w io.Writer, text string, asJSON bool) error {
	infos := catalogInfo(asm.CatalogText(text))

	if asJSON {
		jsonData, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %v", err)
		}
		fmt.Fprintln(w, string(jsonData))
		return nil
	}

	if len(infos) == 0 {
		fmt.Fprintln(w, "no functions found")
		return nil
	}
	fmt.Fprintf(w, "%6s %6s %6s  %s\n", "START", "END", "LINES", "NAME")
	for _, f := range infos {
		name := f.Name
		if f.Demangled != "" {
			name = fmt.Sprintf("%s  (%s)", f.Name, f.Demangled)
		}
		fmt.Fprintf(w, "%6d %6d %6d  %s\n", f.StartLine, f.EndLine, f.Lines, name)
	}
	fmt.Fprintf(w, "\n%d functions\n", len(infos))
	return nil
}
