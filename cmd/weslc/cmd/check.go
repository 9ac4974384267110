package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mew "github.com/ncthbrt/mew"
)

func newCheckCmd() *cobra.Command {
	var entry string
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "parse and lower FILE, reporting any errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			compiler := mew.NewCompiler()
			compiler.AddModule(moduleNameFromPath(args[0]), src)
			if _, errs := compiler.Compile(entry); len(errs) > 0 {
				return errs
			}
			fmt.Fprintln(c.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&entry, "entry", "", "entry path to compile, e.g. app::main")
	return cmd
}
