package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/packstate/cmd/packstate"
	"github.com/arthur-debert/packstate/internal/version"
)

func main() {
	rootCmd := packstate.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "PACKSTATE",
		Section: "1",
		Source:  "packstate " + version.Version,
		Manual:  "packstate manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
