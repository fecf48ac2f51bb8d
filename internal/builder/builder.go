// Package builder orchestrates catalog generation: it scans a directory of
// model files, renders preview images and assembles the index.json that
// the catalog frontend consumes.
package builder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/philipparndt/gridlib/pkg/library"
	"github.com/philipparndt/gridlib/pkg/mesh"
	"github.com/philipparndt/gridlib/pkg/render"
	"github.com/philipparndt/gridlib/pkg/slicer"
)

// Options configures a catalog build
type Options struct {
	Directory      string // directory containing the model files
	OutputFile     string // index filename, default index.json
	ColorHex       string // item color; empty picks a random named color
	LibraryName    string // optional subfolder for images and index
	SkipExisting   bool   // keep previews that already exist on disk
	NonInteractive bool   // skip files with missing dimensions instead of prompting
	SlicerConfig   string // OrcaSlicer profile; empty disables enrichment

	// Input is the stream used for interactive dimension prompts.
	// Defaults to os.Stdin.
	Input io.Reader
}

// Result summarizes a catalog build
type Result struct {
	Successes int
	Failures  int
	IndexPath string
}

// FindModelFiles returns the STL and 3MF files in a directory, each list
// sorted by name.
func FindModelFiles(dir string) (stl, threeMF []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".stl":
			stl = append(stl, filepath.Join(dir, entry.Name()))
		case ".3mf":
			threeMF = append(threeMF, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(stl)
	sort.Strings(threeMF)
	return stl, threeMF, nil
}

// Build scans Options.Directory and writes the catalog index. Per-file
// failures are reported and counted but do not stop the batch.
func Build(opts Options) (*Result, error) {
	if opts.OutputFile == "" {
		opts.OutputFile = "index.json"
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	outputDir := opts.Directory
	if opts.LibraryName != "" {
		outputDir = filepath.Join(opts.Directory, opts.LibraryName)
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		fmt.Printf("Output directory: %s\n\n", outputDir)
	}

	stlFiles, threeMFFiles, err := FindModelFiles(opts.Directory)
	if err != nil {
		return nil, err
	}
	total := len(stlFiles) + len(threeMFFiles)
	if total == 0 {
		return nil, fmt.Errorf("no STL or 3MF files found in %s", opts.Directory)
	}
	fmt.Printf("Found %d STL file(s) and %d 3MF file(s) in %s\n\n",
		len(stlFiles), len(threeMFFiles), opts.Directory)

	colorHex := opts.ColorHex
	if colorHex == "" {
		var name string
		name, colorHex = library.RandomColor()
		fmt.Printf("No color specified - randomly selected: %s (%s)\n\n", name, colorHex)
	}

	var est *slicer.Slicer
	if opts.SlicerConfig != "" {
		est, err = slicer.New(opts.SlicerConfig)
		if err != nil {
			fmt.Printf("WARNING: slicer unavailable, skipping print estimates: %v\n\n", err)
		}
	}

	b := &builder{
		opts:      opts,
		outputDir: outputDir,
		colorHex:  colorHex,
		renderer:  render.NewRenderer(render.ModeOrthographic),
		slicer:    est,
		prompt:    bufio.NewReader(opts.Input),
	}

	lib := library.New()
	result := &Result{}
	fileNo := 0

	for _, path := range stlFiles {
		fileNo++
		fmt.Printf("[%d/%d] Processing %s...\n", fileNo, total, filepath.Base(path))

		item, err := b.processSTL(path)
		if err != nil {
			fmt.Printf("  FAILED: %v\n\n", err)
			result.Failures++
			continue
		}
		if item == nil {
			result.Failures++
			continue
		}
		lib.Add(*item)
		result.Successes++
		fmt.Printf("  SUCCESS: Added %s\n\n", item.Name)
	}

	for _, path := range threeMFFiles {
		fileNo++
		fmt.Printf("[%d/%d] Processing %s...\n", fileNo, total, filepath.Base(path))

		items, err := b.process3MF(path)
		if err != nil {
			fmt.Printf("  FAILED: %v\n\n", err)
			result.Failures++
			continue
		}
		fmt.Printf("  Found %d object(s)\n", len(items))
		for _, item := range items {
			lib.Add(item)
			result.Successes++
			fmt.Printf("    SUCCESS: Added %s\n", item.Name)
		}
		fmt.Println()
	}

	result.IndexPath = filepath.Join(outputDir, opts.OutputFile)
	if err := lib.Write(result.IndexPath); err != nil {
		return result, err
	}
	fmt.Printf("Successfully wrote library to: %s\n", result.IndexPath)
	return result, nil
}

type builder struct {
	opts      Options
	outputDir string
	colorHex  string
	renderer  *render.Renderer
	slicer    *slicer.Slicer
	prompt    *bufio.Reader
}

// processSTL turns one STL file into a catalog item. It returns (nil, nil)
// when the file is skipped.
func (b *builder) processSTL(path string) (*library.Item, error) {
	filename := filepath.Base(path)

	width, height, ok := library.ExtractDimensions(filename)
	if !ok {
		if b.opts.NonInteractive {
			fmt.Printf("  SKIPPED %s (dimensions not found, non-interactive mode)\n\n", filename)
			return nil, nil
		}
		width, height, ok = b.promptForDimensions(filename)
		if !ok {
			fmt.Printf("  SKIPPED %s (cancelled)\n\n", filename)
			return nil, nil
		}
		fmt.Printf("  Using dimensions: %dx%d\n", width, height)
	} else {
		fmt.Printf("  Found dimensions %dx%d in filename\n", width, height)
	}

	m, err := mesh.Load(path)
	if err != nil {
		return nil, err
	}

	// Rotate a quarter turn when the filename orientation contradicts the
	// geometry, so previews match the declared footprint.
	if needsRotation(m, width, height) {
		fmt.Printf("  Rotating geometry to match %dx%d orientation\n", width, height)
		m.RotateZ(90)
	}

	base := library.StripDimensions(filename)
	pngName := fmt.Sprintf("%s %dx%d.png", base, width, height)
	pngPath := filepath.Join(b.outputDir, pngName)

	if err := b.renderPreview(m, pngPath, pngName); err != nil {
		return nil, err
	}

	item := &library.Item{
		ID:          library.ToKebabCase(filename),
		Name:        library.DisplayName(filename, width, height),
		WidthUnits:  width,
		HeightUnits: height,
		Color:       b.colorHex,
		Categories:  []string{},
		ImageURL:    pngName,
		STLFile:     filename,
	}
	b.enrich(item, path)
	return item, nil
}

// process3MF turns each object of a 3MF file into a catalog item
func (b *builder) process3MF(path string) ([]library.Item, error) {
	filename := filepath.Base(path)
	baseName := strings.TrimSuffix(filename, filepath.Ext(filename))

	objects, err := mesh.LoadObjects(path)
	if err != nil {
		return nil, err
	}

	var items []library.Item
	for _, obj := range objects {
		// Square up the footprint before measuring so slanted exports
		// still land on their true grid size
		AlignToAxes(obj)

		width, height := library.GridDimensions(obj.BoundingBox())

		pngName := library.ObjectImageName(baseName, obj.Name, width, height)
		pngPath := filepath.Join(b.outputDir, pngName)

		if err := b.renderPreview(obj, pngPath, pngName); err != nil {
			fmt.Printf("    FAILED to render %s: %v\n", obj.Name, err)
			continue
		}

		item := library.Item{
			ID:          library.ObjectID(baseName, obj.Name, width, height),
			Name:        library.ObjectDisplayName(obj.Name, width, height),
			WidthUnits:  width,
			HeightUnits: height,
			Color:       b.colorHex,
			Categories:  []string{},
			ImageURL:    pngName,
			STLFile:     filename,
		}
		b.enrich(&item, path)
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no renderable objects in %s", filename)
	}
	return items, nil
}

// renderPreview renders an orthographic preview unless it already exists
// and existing files are kept.
func (b *builder) renderPreview(m *mesh.Mesh, pngPath, pngName string) error {
	if b.opts.SkipExisting {
		if _, err := os.Stat(pngPath); err == nil {
			fmt.Printf("  PNG already exists, skipping render: %s\n", pngName)
			return nil
		}
	}
	fmt.Printf("  Rendering PNG: %s\n", pngName)

	opts := render.DefaultOptions()
	opts.Quiet = true
	return b.renderer.RenderMesh(m, pngPath, opts)
}

// enrich adds print estimates when a slicer is configured. Failures are
// warnings; the item stays in the catalog without estimates.
func (b *builder) enrich(item *library.Item, modelPath string) {
	if b.slicer == nil {
		return
	}
	est, err := b.slicer.Slice(context.Background(), modelPath)
	if err != nil {
		fmt.Printf("  WARNING: print estimate failed: %v\n", err)
		return
	}
	item.FilamentGrams = est.FilamentGrams
	item.PrintTimeSeconds = est.PrintTimeSeconds
}

// promptForDimensions asks for grid units on the interactive input.
// Empty input cancels.
func (b *builder) promptForDimensions(filename string) (width, height int, ok bool) {
	fmt.Printf("\nDimensions not found in filename: %s\n", filename)

	width, ok = b.promptPositiveInt("Enter width (in grid units): ")
	if !ok {
		return 0, 0, false
	}
	height, ok = b.promptPositiveInt("Enter height (in grid units): ")
	if !ok {
		return 0, 0, false
	}
	return width, height, true
}

func (b *builder) promptPositiveInt(label string) (int, bool) {
	for {
		fmt.Print(label)
		line, err := b.prompt.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return 0, false
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n > 0 {
			return n, true
		}
		fmt.Println("Invalid input. Please enter a positive integer.")
		if err != nil {
			return 0, false
		}
	}
}

// needsRotation reports whether the geometry's footprint orientation
// contradicts the WxH declared in the filename. Square footprints on
// either side never rotate.
func needsRotation(m *mesh.Mesh, width, height int) bool {
	size := m.BoundingBox().Size()
	xUnits := library.UnitsFor(size.X)
	yUnits := library.UnitsFor(size.Y)

	if width == height || xUnits == yUnits {
		return false
	}
	filenameLandscape := width > height
	geometryLandscape := xUnits > yUnits
	return filenameLandscape != geometryLandscape
}

// AlignToAxes rotates a mesh about Z so its footprint lines up with the
// X/Y axes, picking the angle in [0, 90) that minimizes the projected
// bounding box area. One degree of resolution is enough for grid sizing.
func AlignToAxes(m *mesh.Mesh) {
	best := bestAlignmentAngle(m)
	if best != 0 {
		m.RotateZ(float64(best))
	}
}

func bestAlignmentAngle(m *mesh.Mesh) int {
	if len(m.Faces) == 0 {
		return 0
	}

	bestAngle := 0
	bestArea := math.Inf(1)

	for angle := 0; angle < 90; angle++ {
		sin, cos := math.Sincos(float64(angle) * math.Pi / 180.0)

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, face := range m.Faces {
			for _, v := range [3]struct{ X, Y float64 }{
				{face.V1.X, face.V1.Y},
				{face.V2.X, face.V2.Y},
				{face.V3.X, face.V3.Y},
			} {
				x := v.X*cos - v.Y*sin
				y := v.X*sin + v.Y*cos
				minX = math.Min(minX, x)
				maxX = math.Max(maxX, x)
				minY = math.Min(minY, y)
				maxY = math.Max(maxY, y)
			}
		}

		area := (maxX - minX) * (maxY - minY)
		if area < bestArea {
			bestArea = area
			bestAngle = angle
		}
	}
	return bestAngle
}
