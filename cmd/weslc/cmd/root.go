// Package cmd implements the weslc command-line surface: check, parse,
// dump and bundle, each a thin wrapper over the Compiler / internal
// passes exposed by the root mew package.
//
// Grounded on cuelang.org/go/cmd/cue/cmd's root-command-plus-one-file-per-
// subcommand layout: a New() constructor builds the root *cobra.Command
// and wires every subcommand onto it.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// New constructs the root weslc command with every subcommand attached.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "weslc",
		Short:         "weslc lowers WESL source to flat WGSL",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newCheckCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newDumpCmd())
	root.AddCommand(newBundleCmd())
	return root
}

// MainTest is the weslc entry point registered with testscript.RunMain, so
// that txtar-driven script tests can exec "weslc" as a subprocess-like
// command within the same test binary.
func MainTest() int {
	root := New()
	root.SetArgs(os.Args[1:])
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
