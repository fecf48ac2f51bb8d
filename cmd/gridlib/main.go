package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gridlib/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gridlib",
	Short: "A CLI tool for building Gridfinity part library catalogs",
	Long: `gridlib renders STL and 3MF models into 2D preview images and builds
the index.json catalogs consumed by Gridfinity library frontends.
It supports top-down orthographic and tilted perspective previews.`,
	Version: version.GetFullVersion(),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
