package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
	"github.com/ncthbrt/mew/format"
	"github.com/ncthbrt/mew/internal/bundle"
	"github.com/ncthbrt/mew/parser"
	"github.com/ncthbrt/mew/token"
)

func newBundleCmd() *cobra.Command {
	var moduleName string
	cmd := &cobra.Command{
		Use:   "bundle FILE",
		Short: "bundle FILE into a translation unit, optionally wrapped in a named module",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			tu, errs := bundle.Bundle(
				[]bundle.Fragment{{Source: src}}, moduleName,
				func(s string, offset token.Pos) (*ast.TranslationUnit, errors.List) {
					return parser.Parse(strings.Repeat(" ", int(offset)) + s)
				},
			)
			if len(errs) > 0 {
				return errs
			}
			fmt.Fprint(c.OutOrStdout(), format.TranslationUnit(tu))
			return nil
		},
	}
	cmd.Flags().StringVar(&moduleName, "module", "", "wrap the bundled declarations in a synthetic module of this name")
	return cmd
}
