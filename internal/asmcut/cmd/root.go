package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"asmcut/internal/asmcut/log"
	"asmcut/internal/config"
	"asmcut/internal/ui/colorize"
	"asmcut/internal/workspace"
)

// appConfig is loaded once per invocation before any subcommand runs.
var appConfig = config.Default()

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable syntax highlighting")

	rootCmd.AddCommand(listCmd, showCmd, refsCmd, depsCmd, rmCmd, checkCmd, watchCmd, browseCmd)
}

var rootCmd = &cobra.Command{
	Use:   "asmcut",
	Short: "Locate, catalog and cut functions in assembly listings",
	Long: `Asmcut splits raw assembly listings into functions.
It finds where a named function starts and ends, lists every function of a
module, extracts the symbols a function refers to and removes functions from
a module in place.`,
	Example: `
# List the functions of a module
asmcut list src/code_80001000.s

# Print one function
asmcut show src/code_80001000.s func_80001234

# Remove a function and write the module back
asmcut rm src/code_80001000.s func_80001234
  `,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ResolveCwd(cmd); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			cfg.NoColor = true
		}
		if !term.IsTerminal(os.Stdout.Fd()) {
			cfg.NoColor = true
		}
		debug, _ := cmd.Flags().GetBool("debug")
		log.Setup(cfg, debug)
		appConfig = cfg
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return log.Close()
	},
}

func highlighter() colorize.Highlighter {
	return colorize.Highlighter{NoColor: appConfig.NoColor}
}

// readModule returns the text of the module at path; "-" reads stdin.
func readModule(ctx context.Context, in io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	text, err := workspace.FileProvider{}.Read(ctx, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", fmt.Errorf("cannot read module: %w", err)
	}
	return text, nil
}

func Execute() {
	// Use cobra directly when output is piped to bypass fang's styled help
	// and error rendering.
	if !term.IsTerminal(os.Stdout.Fd()) {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
