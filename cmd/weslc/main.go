// Command weslc compiles WESL source to flat WGSL.
package main

import (
	"fmt"
	"os"

	"github.com/ncthbrt/mew/cmd/weslc/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
