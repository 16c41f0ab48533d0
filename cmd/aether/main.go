// Command aether is the AetherraCode compiler front end. It tokenizes,
// parses, analyzes and compiles source files and prints what each stage
// produced; executing the resulting plan is the runtime's job, not ours.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"aether"
	"aether/diag"
	"aether/parser"
	"aether/trace"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "aether: %v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	strict       bool
	noColor      bool
	traceEnabled bool
	traceFilters []string
}

func (f *cliFlags) compileOptions() []aether.Option {
	var opts []aether.Option
	if f.strict {
		opts = append(opts, aether.Strict())
	}
	return opts
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:           "aether",
		Short:         "Compile AetherraCode into executable plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			trace.Init(flags.traceEnabled, flags.traceFilters, cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().BoolVar(&flags.strict, "strict", false, "Stop at the first syntax error")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flags.traceEnabled, "trace", false, "Enable pipeline stage tracing")
	rootCmd.PersistentFlags().StringSliceVar(&flags.traceFilters, "trace-filter", nil, "Trace filter pattern (glob, e.g. 'lex*')")

	rootCmd.AddCommand(newTokensCmd(flags))
	rootCmd.AddCommand(newParseCmd(flags))
	rootCmd.AddCommand(newCheckCmd(flags))
	rootCmd.AddCommand(newPlanCmd(flags))
	rootCmd.AddCommand(newFmtCmd(flags))
	return rootCmd
}

func newTokensCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			tokens, warnings := parser.Tokenize(source)
			for _, tok := range tokens {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d:%-4d %-16s %q\n",
					tok.Position.Line, tok.Position.Column, tok.Type, tok.Value)
			}
			printDiags(cmd.ErrOrStderr(), args[0], warnings)
			return nil
		},
	}
}

func newParseCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file and print its diagnostics and analysis report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			res, err := aether.CompileSource(source, flags.compileOptions()...)
			printDiags(cmd.ErrOrStderr(), args[0], res.Diags)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), res.Report.String())
			return nil
		},
	}
}

func newCheckCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Compile files in parallel and report everything found",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]*aether.Result, len(args))
			var g errgroup.Group
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					source, err := readSource(path)
					if err != nil {
						return err
					}
					res, _ := aether.CompileSource(source, flags.compileOptions()...)
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			failed := 0
			for i, path := range args {
				res := results[i]
				printDiags(errOut, path, res.Diags)
				for _, e := range res.Report.Errors {
					fmt.Fprintf(errOut, "%s: error: %s\n", path, e)
				}
				for _, w := range res.Report.Warnings {
					fmt.Fprintf(errOut, "%s: warning: %s\n", path, w)
				}
				if diag.HasErrors(res.Diags) || res.Report.HasErrors() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files have errors", failed, len(args))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d files ok\n", len(args))
			return nil
		},
	}
}

func newPlanCmd(flags *cliFlags) *cobra.Command {
	var fingerprint bool
	planCmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Compile a file and render its executable plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			res, err := aether.CompileSource(source, flags.compileOptions()...)
			printDiags(cmd.ErrOrStderr(), args[0], res.Diags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if colorEnabled(flags) {
				fmt.Fprint(out, res.Plan.String())
			} else {
				fmt.Fprint(out, res.Plan.StringNoColor())
			}
			if fingerprint {
				fmt.Fprintf(out, "fingerprint: %s\n", res.Plan.Fingerprint())
			}
			return nil
		},
	}
	planCmd.Flags().BoolVar(&fingerprint, "fingerprint", false, "Print the plan fingerprint")
	return planCmd
}

func newFmtCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <file>",
		Short: "Print the canonical formatting of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			res, err := aether.CompileSource(source, flags.compileOptions()...)
			printDiags(cmd.ErrOrStderr(), args[0], res.Diags)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), parser.Unparse(res.Tree))
			return nil
		},
	}
}

// readSource loads a file, or stdin when the path is "-".
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printDiags(w io.Writer, path string, ds []diag.Diagnostic) {
	for _, d := range ds {
		fmt.Fprintf(w, "%s: %s\n", path, d.Error())
	}
}

// colorEnabled checks the real stdout, not cobra's writer.
func colorEnabled(flags *cliFlags) bool {
	if flags.noColor {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
