package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gridlib/internal/builder"
	"github.com/philipparndt/gridlib/pkg/library"
	"github.com/spf13/cobra"
)

var (
	buildOutput         string
	buildColor          string
	buildLibraryName    string
	buildNoSkipExisting bool
	buildNonInteractive bool
	buildSlicerConfig   string
)

var buildCmd = &cobra.Command{
	Use:   "build [directory]",
	Short: "Generate an index.json catalog from a folder of model files",
	Long: `Scan a directory for STL and 3MF files, render a preview image for
each item and write an index.json catalog. Grid dimensions come from WxH
patterns in STL filenames and from bounding boxes for 3MF objects.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "index.json", "output filename")
	buildCmd.Flags().StringVarP(&buildColor, "color", "c", "", "item color name or hex code (default: random)")
	buildCmd.Flags().StringVarP(&buildLibraryName, "library-name", "n", "", "create a subfolder for images and index")
	buildCmd.Flags().BoolVar(&buildNoSkipExisting, "no-skip-existing", false, "re-render previews even if they exist")
	buildCmd.Flags().BoolVar(&buildNonInteractive, "non-interactive", false, "skip files with missing dimensions instead of prompting")
	buildCmd.Flags().StringVar(&buildSlicerConfig, "slicer-config", "", "OrcaSlicer profile for print time and filament estimates")
}

func runBuild(cmd *cobra.Command, args []string) error {
	directory := "."
	if len(args) > 0 {
		directory = args[0]
	}
	if info, err := os.Stat(directory); err != nil || !info.IsDir() {
		return fmt.Errorf("directory not found: %s", directory)
	}

	colorHex := ""
	if buildColor != "" {
		var err error
		colorHex, err = library.ParseColor(buildColor)
		if err != nil {
			return err
		}
	}

	result, err := builder.Build(builder.Options{
		Directory:      directory,
		OutputFile:     buildOutput,
		ColorHex:       colorHex,
		LibraryName:    buildLibraryName,
		SkipExisting:   !buildNoSkipExisting,
		NonInteractive: buildNonInteractive,
		SlicerConfig:   buildSlicerConfig,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Successfully processed: %d item(s)\n", result.Successes)
	if result.Failures > 0 {
		fmt.Printf("Failed: %d item(s)\n", result.Failures)
	}
	fmt.Printf("Output: %s\n", result.IndexPath)
	return nil
}
