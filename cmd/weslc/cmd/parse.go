package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncthbrt/mew/format"
	"github.com/ncthbrt/mew/parser"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "parse FILE and print it back as source, without lowering",
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
			fmt.Fprint(c.OutOrStdout(), format.TranslationUnit(tu))
			return nil
		},
	}
}
