package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"asmcut/internal/asm"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Compare catalog ranges with single-function resolution",
	Long: `Check runs both boundary strategies over a module: the catalog pass and
the per-function resolver. Functions closed by their own .size directive must
agree. Functions closed heuristically are reported with the rule that closed
them, so modules missing .size directives can be spotted.`,
	Example: `
# Report every function
asmcut check code.s

# Only report disagreements
asmcut check -q code.s
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")

		text, err := readModule(cmd.Context(), cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		if !quiet {
			slog.Info("Checking module", "file", args[0])
		}

		report := checkModule(text)
		writeCheck(cmd.OutOrStdout(), report, quiet)
		if n := report.mismatches(); n > 0 {
			return fmt.Errorf("%d function(s) resolve differently from the catalog", n)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolP("quiet", "q", false, "Only print disagreements")
}

type checkEntry struct {
	record   asm.FunctionRecord
	resolved asm.Range
	err      error
}

func (e checkEntry) agrees() bool {
	return e.err == nil && e.resolved.Start == e.record.StartLine && e.resolved.End == e.record.EndLine
}

type checkReport []checkEntry

func (r checkReport) mismatches() int {
	n := 0
	for _, e := range r {
		// heuristic ends are allowed to differ from the catalog
		if e.err == nil && e.resolved.Close != asm.CloseSize {
			continue
		}
		if !e.agrees() {
			n++
		}
	}
	return n
}

// checkModule resolves each cataloged function by name. Repeated names
// resolve to their first definition, so later duplicates disagree.
func checkModule(text string) checkReport {
	src := asm.NewSource(text)
	var report checkReport
	for _, rec := range asm.Catalog(src) {
		r, err := asm.Resolve(src, rec.Name)
		report = append(report, checkEntry{record: rec, resolved: r, err: err})
	}
	return report
}

func writeCheck(w io.Writer, report checkReport, quiet bool) {
	for _, e := range report {
		switch {
		case e.err != nil:
			fmt.Fprintf(w, "%-32s catalog %d-%d, resolver: %v\n", e.record.Name, e.record.StartLine, e.record.EndLine, e.err)
		case !e.agrees():
			fmt.Fprintf(w, "%-32s catalog %d-%d, resolver %d-%d (%s)\n",
				e.record.Name, e.record.StartLine, e.record.EndLine, e.resolved.Start, e.resolved.End, e.resolved.Close)
		case !quiet:
			fmt.Fprintf(w, "%-32s %d-%d ok (%s)\n", e.record.Name, e.record.StartLine, e.record.EndLine, e.resolved.Close)
		}
	}
}
