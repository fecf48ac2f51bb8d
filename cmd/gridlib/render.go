package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/philipparndt/gridlib/pkg/render"
	"github.com/spf13/cobra"
)

var (
	renderOutput   string
	renderSize     int
	renderDPI      int
	renderMode     string
	renderTilt     float64
	renderFOV      float64
	renderRotation float64
	renderQuiet    bool
	renderBatch    string
)

var renderCmd = &cobra.Command{
	Use:   "render [model]",
	Short: "Render a model file to a PNG preview image",
	Long: `Render an STL or 3MF file to a PNG image. The default top-down
orthographic view sizes the image to the model's aspect ratio; perspective
mode uses a tilted pinhole camera with flat shading.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output PNG path (default: model name with .png)")
	renderCmd.Flags().IntVarP(&renderSize, "size", "s", render.DefaultMaxDimension, "maximum dimension in pixels")
	renderCmd.Flags().IntVarP(&renderDPI, "dpi", "d", render.DefaultDPI, "DPI for the output image (orthographic mode)")
	renderCmd.Flags().StringVar(&renderMode, "mode", "ortho", "render mode: ortho or perspective")
	renderCmd.Flags().Float64Var(&renderTilt, "tilt", render.DefaultCameraTilt, "camera tilt in degrees (perspective mode)")
	renderCmd.Flags().Float64Var(&renderFOV, "fov", render.DefaultFOV, "vertical field of view in degrees (perspective mode)")
	renderCmd.Flags().Float64Var(&renderRotation, "rotation", 0, "rotate the model around Z before rendering (degrees)")
	renderCmd.Flags().BoolVarP(&renderQuiet, "quiet", "q", false, "suppress progress output")
	renderCmd.Flags().StringVarP(&renderBatch, "batch", "b", "", "render every .stl file in the given directory")
	renderCmd.Flags().Lookup("batch").NoOptDefVal = "."
}

func parseMode(s string) (render.Mode, error) {
	switch strings.ToLower(s) {
	case "ortho", "orthographic":
		return render.ModeOrthographic, nil
	case "perspective":
		return render.ModePerspective, nil
	default:
		return 0, fmt.Errorf("invalid mode %q: use ortho or perspective", s)
	}
}

func renderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.MaxDimension = renderSize
	opts.DPI = renderDPI
	opts.CameraTilt = renderTilt
	opts.FOV = renderFOV
	opts.Rotation = renderRotation
	opts.Quiet = renderQuiet
	return opts
}

func runRender(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(renderMode)
	if err != nil {
		return err
	}

	if renderBatch != "" {
		if len(args) > 0 {
			return fmt.Errorf("cannot use --batch with a model file argument")
		}
		if renderOutput != "" {
			return fmt.Errorf("cannot use --output with --batch (output names are derived automatically)")
		}
		return runRenderBatch(mode)
	}

	if len(args) == 0 {
		return fmt.Errorf("provide a model file or use --batch")
	}
	modelPath := args[0]

	outputPath := renderOutput
	if outputPath == "" {
		outputPath = strings.TrimSuffix(modelPath, filepath.Ext(modelPath)) + ".png"
	}

	renderer := render.NewRenderer(mode)
	if err := renderer.RenderFile(modelPath, outputPath, renderOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering %s: %v\n", modelPath, err)
		os.Exit(1)
	}
	return nil
}

func runRenderBatch(mode render.Mode) error {
	files, err := filepath.Glob(filepath.Join(renderBatch, "*.stl"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	if len(files) == 0 {
		return fmt.Errorf("no .stl files found in %s", renderBatch)
	}

	fmt.Printf("Batch processing %d STL file(s) in %s...\n", len(files), renderBatch)

	opts := renderOptions()
	opts.Quiet = true
	renderer := render.NewRenderer(mode)

	successes, failures := 0, 0
	for _, file := range files {
		outputPath := strings.TrimSuffix(file, filepath.Ext(file)) + ".png"
		if err := renderer.RenderFile(file, outputPath, opts); err != nil {
			fmt.Fprintf(os.Stderr, "  FAILED  %s: %v\n", file, err)
			failures++
			continue
		}
		fmt.Printf("  Rendered %s -> %s\n", file, outputPath)
		successes++
	}

	fmt.Printf("Done: %d succeeded, %d failed\n", successes, failures)
	if failures > 0 {
		os.Exit(1)
	}
	return nil
}
