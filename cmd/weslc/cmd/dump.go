package cmd

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/ncthbrt/mew/parser"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE",
		Short: "parse FILE and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			tu, errs := parser.Parse(src)
			if len(errs) > 0 {
				return errs
			}
			fmt.Fprintf(c.OutOrStdout(), "%# v\n", pretty.Formatter(tu))
			return nil
		},
	}
}
