package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gridlib/pkg/library"
	"github.com/philipparndt/gridlib/pkg/mesh"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [model]",
	Short: "Display information about a model file",
	Long:  "Show dimensions, Gridfinity grid units, face statistics and bounding box for an STL or 3MF file.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	filename := args[0]

	m, err := mesh.Load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}

	bbox := m.BoundingBox()
	size := bbox.Size()
	center := bbox.Center()
	width, height := library.GridDimensions(bbox)

	up, down, side := classifyFaces(m)

	fmt.Println("Model Information")
	fmt.Println("=================")
	if m.Name != "" {
		fmt.Printf("Name: %s\n", m.Name)
	}
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Model Statistics:")
	fmt.Printf("  Triangles: %d\n", m.FaceCount())
	fmt.Printf("  Facing up: %d\n", up)
	fmt.Printf("  Facing down: %d\n", down)
	fmt.Printf("  Facing sideways: %d\n\n", side)

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: (%.3f, %.3f, %.3f)\n", bbox.Min.X, bbox.Min.Y, bbox.Min.Z)
	fmt.Printf("  Max: (%.3f, %.3f, %.3f)\n", bbox.Max.X, bbox.Max.Y, bbox.Max.Z)
	fmt.Printf("  Center: (%.3f, %.3f, %.3f)\n\n", center.X, center.Y, center.Z)

	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %.3f mm\n", size.X)
	fmt.Printf("  Depth (Y): %.3f mm\n", size.Y)
	fmt.Printf("  Height (Z): %.3f mm\n", size.Z)
	fmt.Printf("  Diagonal: %.3f mm\n", bbox.Diagonal())
	fmt.Printf("  Bounding volume: %.3f cubic mm\n\n", bbox.Volume())

	fmt.Println("Gridfinity:")
	fmt.Printf("  Grid units: %dx%d (42 mm grid)\n", width, height)
}

// classifyFaces counts faces by normal direction. Faces within ~45
// degrees of vertical count as up or down, the rest as sideways.
func classifyFaces(m *mesh.Mesh) (up, down, side int) {
	for _, face := range m.Faces {
		switch {
		case face.Normal.Z > 0.707:
			up++
		case face.Normal.Z < -0.707:
			down++
		default:
			side++
		}
	}
	return up, down, side
}
