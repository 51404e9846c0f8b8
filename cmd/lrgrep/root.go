package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nihei9/lrgrep/rgerr"
)

// version is stamped at release build time; unset in a plain `go build`.
var version = "dev"

type flagSet struct {
	output      string
	grammar     string
	quiet       bool
	noFile      bool
	dump        bool
	printV      bool
	printN      bool
	headerFile  string
	trailerFile string
}

var rootFlags = flagSet{}

var rootCmd = &cobra.Command{
	Use:           "lrgrep [spec-file]",
	Short:         "Compile a pattern specification into a stack-suffix recognizer",
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

func init() {
	applyConfigDefaults(&rootFlags)

	rootCmd.Flags().StringVarP(&rootFlags.output, "output", "o", rootFlags.output, "output file path")
	rootCmd.Flags().StringVarP(&rootFlags.grammar, "grammar", "g", rootFlags.grammar, "compiled LR(1) grammar table path")
	rootCmd.Flags().BoolVarP(&rootFlags.quiet, "quiet", "q", rootFlags.quiet, "suppress informational output")
	rootCmd.Flags().BoolVarP(&rootFlags.noFile, "no-file", "n", rootFlags.noFile, "compile but produce no output file (the spec is fully compiled, not only parsed)")
	rootCmd.Flags().BoolVarP(&rootFlags.dump, "describe", "d", rootFlags.dump, "dump a human-readable description instead of writing output")
	rootCmd.Flags().BoolVarP(&rootFlags.printV, "version", "v", false, "print version and exit")
	rootCmd.Flags().BoolVar(&rootFlags.printN, "vnum", false, "print version number and exit")
}

// Execute runs the root command. The single-dash long spellings -version
// and -vnum are rewritten to their double-dash forms first, since pflag
// would otherwise read them as bundles of one-letter shorthands.
func Execute() error {
	args := make([]string, 0, len(os.Args))
	for _, a := range os.Args[1:] {
		if a == "-version" || a == "-vnum" {
			a = "-" + a
		}
		args = append(args, a)
	}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, args []string) error {
	if rootFlags.printV {
		fmt.Fprintln(os.Stdout, "lrgrep "+version)
		return nil
	}
	if rootFlags.printN {
		fmt.Fprintln(os.Stdout, version)
		return nil
	}
	if len(args) == 0 {
		return rgerr.Config(fmt.Errorf("missing spec file argument"))
	}
	if rootFlags.grammar == "" {
		return rgerr.Config(fmt.Errorf("missing -g grammar table path"))
	}
	return runCompile(args[0])
}

// exitCodeOf maps an error to the process exit code of spec.md §6.3/§7.
func exitCodeOf(err error) int {
	if rgErr, ok := err.(*rgerr.Error); ok {
		return rgErr.Kind.ExitCode()
	}
	return 1
}

func infoPrinter() func(format string, args ...interface{}) {
	if rootFlags.quiet {
		return func(string, ...interface{}) {}
	}
	return func(format string, args ...interface{}) {
		pterm.Info.Printfln(format, args...)
	}
}
