package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"asmcut/internal/editor"
	"asmcut/internal/workspace"
)

var rmCmd = &cobra.Command{
	Use:   "rm [file] [function...]",
	Short: "Remove functions from a module",
	Long: `Remove one or more functions from a module and write it back. Each
function is removed in turn from the result of the previous removal. Runs of
blank lines left behind collapse to a single blank line.`,
	Example: `
# Remove two functions
asmcut rm code.s func_80001234 func_80001300

# Show what would be removed
asmcut rm --dry-run code.s func_80001234
  `,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "-" {
			return fmt.Errorf("rm needs a module file, not stdin")
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		ed := editor.New(workspace.FileProvider{}, nil, slog.Default())
		return runRemove(cmd.Context(), cmd.OutOrStdout(), ed, args[0], args[1:], dryRun)
	},
}

func init() {
	rmCmd.Flags().BoolP("dry-run", "n", false, "Report removals without writing the module")
}

func runRemove(ctx context.Context, w io.Writer, ed *editor.Editor, path string, names []string, dryRun bool) error {
	if dryRun {
		// Plans run against an unchanged module, so chain them in memory.
		mem := &memoryModule{}
		var err error
		if mem.text, err = readModule(ctx, nil, path); err != nil {
			return err
		}
		ed = editor.New(mem, nil, nil)
	}

	for _, name := range names {
		res, err := ed.Remove(ctx, path, name)
		if err != nil {
			return err
		}
		verb := "removed"
		if dryRun {
			verb = "would remove"
		}
		fmt.Fprintf(w, "%s %s (lines %d-%d, %d lines)\n",
			verb, name, res.Removed.StartLine, res.Removed.EndLine, res.Removed.Lines())
	}
	return nil
}

// memoryModule is a single module held in memory.
type memoryModule struct {
	text string
}

func (m *memoryModule) Read(context.Context, string) (string, error) { return m.text, nil }

func (m *memoryModule) Write(_ context.Context, _, text string) error {
	m.text = text
	return nil
}
