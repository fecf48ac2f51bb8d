package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gridlib/internal/builder"
	"github.com/spf13/cobra"
)

var imagesForce bool

var imagesCmd = &cobra.Command{
	Use:   "images [directory]",
	Short: "Generate missing preview images for library items",
	Long: `Read each library's index.json and generate any missing orthographic
preview, perspective preview and rotation variants (90, 180, 270 degrees).
The directory may be a single library or a tree of library folders.
index.json is updated when image references change.`,
	Args: cobra.ExactArgs(1),
	RunE: runImages,
}

func init() {
	rootCmd.AddCommand(imagesCmd)

	imagesCmd.Flags().BoolVar(&imagesForce, "force", false, "regenerate all images even if they exist")
}

func runImages(cmd *cobra.Command, args []string) error {
	directory := args[0]
	if info, err := os.Stat(directory); err != nil || !info.IsDir() {
		return fmt.Errorf("directory not found: %s", directory)
	}

	result, err := builder.GenerateImages(directory, builder.ImageOptions{Force: imagesForce})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Generated: %d\n", result.Generated)
	fmt.Printf("Skipped (already exist): %d\n", result.Skipped)
	fmt.Printf("Failed: %d\n", result.Failed)
	fmt.Printf("Indexes updated: %d\n", result.IndexesUpdated)

	if result.Failed > 0 {
		os.Exit(1)
	}
	return nil
}
