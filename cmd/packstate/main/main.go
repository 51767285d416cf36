package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/packstate/cmd/packstate"
)

func main() {
	rootCmd := packstate.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, packstate.RenderError(os.Stderr, err))
		os.Exit(1)
	}
}
