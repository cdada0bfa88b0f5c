package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"asmcut/internal/asm"
	"asmcut/internal/workspace"
)

var refsCmd = &cobra.Command{
	Use:   "refs [file] [function]",
	Short: "List symbols referenced by a function, or by every function",
	Long: `List the symbols a function refers to through jal calls, "@ =symbol"
annotations and la/add/move loads of "=symbol". Without a function name every
function of the module is listed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readModule(cmd.Context(), cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		name := ""
		if len(args) == 2 {
			name = args[1]
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		return runRefs(cmd.OutOrStdout(), text, name, asJSON)
	},
}

var depsCmd = &cobra.Command{
	Use:   "deps [file] [function]",
	Short: "Resolve the symbols a function references against a directory of modules",
	Example: `
# Look up callees of func_80001234 in all modules under asm/
asmcut deps --dir asm asm/code_80001000.s func_80001234
  `,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readModule(cmd.Context(), cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = filepath.Dir(args[0])
		}
		idx, err := workspace.BuildIndex(cmd.Context(), dir, appConfig.Extensions, appConfig.Workers, nil)
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", dir, err)
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		return runDeps(cmd.OutOrStdout(), idx, text, args[1], asJSON)
	},
}

func init() {
	refsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	depsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	depsCmd.Flags().String("dir", "", "Directory of modules to search (default: the module's directory)")
}

func runRefs(w io.Writer, text, name string, asJSON bool) error {
	type entry struct {
		Function   string   `json:"function"`
		References []string `json:"references"`
	}
	var entries []entry

	if name != "" {
		rec, err := asm.Locate(text, name)
		if err != nil {
			return err
		}
		entries = append(entries, entry{name, asm.SortedCallReferences(rec.Code)})
	} else {
		for _, rec := range asm.CatalogText(text) {
			entries = append(entries, entry{rec.Name, asm.SortedCallReferences(rec.Code)})
		}
	}

	if asJSON {
		for i := range entries {
			if entries[i].References == nil {
				entries[i].References = []string{}
			}
		}
		jsonData, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %v", err)
		}
		fmt.Fprintln(w, string(jsonData))
		return nil
	}

	if name != "" {
		for _, ref := range entries[0].References {
			fmt.Fprintln(w, ref)
		}
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s: %s\n", e.Function, strings.Join(e.References, ", "))
	}
	return nil
}

// Dependency is one referenced symbol and where it is defined.
type Dependency struct {
	Symbol      string                 `json:"symbol"`
	Definitions []workspace.Definition `json:"definitions"`
}

func runDeps(w io.Writer, idx *workspace.Index, text, name string, asJSON bool) error {
	rec, err := asm.Locate(text, name)
	if err != nil {
		return err
	}
	refs := asm.SortedCallReferences(rec.Code)
	resolved := idx.Resolve(refs)

	deps := make([]Dependency, 0, len(refs))
	for _, ref := range refs {
		defs := resolved[ref]
		if defs == nil {
			defs = []workspace.Definition{}
		}
		deps = append(deps, Dependency{Symbol: ref, Definitions: defs})
	}

	if asJSON {
		jsonData, err := json.MarshalIndent(deps, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %v", err)
		}
		fmt.Fprintln(w, string(jsonData))
		return nil
	}

	for _, d := range deps {
		if len(d.Definitions) == 0 {
			fmt.Fprintf(w, "%s\t(not defined in %s)\n", d.Symbol, idx.Root)
			continue
		}
		for _, def := range d.Definitions {
			fmt.Fprintf(w, "%s\t%s:%d-%d\n", d.Symbol, def.Path, def.StartLine, def.EndLine)
		}
	}
	return nil
}
