package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/philipparndt/gridlib/pkg/library"
	"github.com/philipparndt/gridlib/pkg/render"
)

// rotationAngles are the perspective variants generated for every item
var rotationAngles = []int{90, 180, 270}

// ImageOptions configures preview image generation
type ImageOptions struct {
	Force bool // regenerate even when files exist
}

// ImageResult summarizes an image generation run
type ImageResult struct {
	Generated      int
	Skipped        int
	Failed         int
	IndexesUpdated int
}

// GenerateImages fills in missing preview images. The directory may be a
// single library (containing index.json) or a tree of library
// directories.
func GenerateImages(dir string, opts ImageOptions) (*ImageResult, error) {
	result := &ImageResult{}

	if hasIndex(dir) {
		if err := processLibrary(dir, opts, result); err != nil {
			return result, err
		}
		return result, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		libDir := filepath.Join(dir, name)
		if !hasIndex(libDir) {
			continue
		}
		if err := processLibrary(libDir, opts, result); err != nil {
			fmt.Printf("  ERROR processing %s: %v\n", name, err)
			result.Failed++
		}
	}
	return result, nil
}

func hasIndex(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "index.json"))
	return err == nil
}

// processLibrary generates missing images for every item of one library
// and rewrites its index.json when entries changed.
func processLibrary(libDir string, opts ImageOptions, result *ImageResult) error {
	indexPath := filepath.Join(libDir, "index.json")
	lib, err := library.Read(indexPath)
	if err != nil {
		return err
	}

	fmt.Printf("Processing library: %s (%d items)\n", filepath.Base(libDir), len(lib.Items))

	modified := false
	for i := range lib.Items {
		if processItem(&lib.Items[i], libDir, opts, result) {
			modified = true
		}
	}

	if modified {
		if err := lib.Write(indexPath); err != nil {
			return err
		}
		result.IndexesUpdated++
		fmt.Printf("  Updated %s\n", indexPath)
	}
	return nil
}

// processItem generates the item's missing ortho, perspective and
// rotation images. It returns true when the index entry changed.
func processItem(item *library.Item, libDir string, opts ImageOptions, result *ImageResult) bool {
	modelPath := modelFileForItem(libDir, item)
	if modelPath == "" {
		fmt.Printf("  [%s] No model file found, skipping\n", item.ID)
		return false
	}

	orthoName, perspectiveName := library.ImageNames(filepath.Base(modelPath))
	modified := false

	// Orthographic preview
	if opts.Force || item.ImageURL == "" || !fileExists(filepath.Join(libDir, item.ImageURL)) {
		orthoPath := filepath.Join(libDir, orthoName)
		if opts.Force || !fileExists(orthoPath) {
			fmt.Printf("  [%s] Generating ortho: %s\n", item.ID, orthoName)
			if err := renderImage(render.ModeOrthographic, modelPath, orthoPath, 0); err != nil {
				fmt.Printf("  [%s] FAILED to generate ortho: %v\n", item.ID, err)
				result.Failed++
				return modified
			}
			result.Generated++
		}
		if item.ImageURL != orthoName {
			item.ImageURL = orthoName
			modified = true
		}
	} else {
		result.Skipped++
	}

	// Perspective preview
	if opts.Force || item.PerspectiveImageURL == "" || !fileExists(filepath.Join(libDir, item.PerspectiveImageURL)) {
		perspectivePath := filepath.Join(libDir, perspectiveName)
		if opts.Force || !fileExists(perspectivePath) {
			fmt.Printf("  [%s] Generating perspective: %s\n", item.ID, perspectiveName)
			if err := renderImage(render.ModePerspective, modelPath, perspectivePath, 0); err != nil {
				fmt.Printf("  [%s] FAILED to generate perspective: %v\n", item.ID, err)
				result.Failed++
				return modified
			}
			result.Generated++
		}
		if item.PerspectiveImageURL != perspectiveName {
			item.PerspectiveImageURL = perspectiveName
			modified = true
		}
	} else {
		result.Skipped++
	}

	// Rotation variants
	for _, angle := range rotationAngles {
		rotName, ok := library.RotationImageName(item.PerspectiveImageURL, angle)
		if !ok {
			fmt.Printf("  [%s] Non-standard perspective naming: %s, skipping rotations\n",
				item.ID, item.PerspectiveImageURL)
			break
		}
		rotPath := filepath.Join(libDir, rotName)
		if !opts.Force && fileExists(rotPath) {
			result.Skipped++
			continue
		}
		fmt.Printf("  [%s] Generating perspective %d: %s\n", item.ID, angle, rotName)
		if err := renderImage(render.ModePerspective, modelPath, rotPath, float64(angle)); err != nil {
			fmt.Printf("  [%s] FAILED to generate perspective %d: %v\n", item.ID, angle, err)
			result.Failed++
			continue
		}
		result.Generated++
	}

	return modified
}

func renderImage(mode render.Mode, modelPath, outputPath string, rotation float64) error {
	opts := render.DefaultOptions()
	opts.Quiet = true
	opts.Rotation = rotation
	return render.NewRenderer(mode).RenderFile(modelPath, outputPath, opts)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// modelFileForItem locates the model file belonging to an index item. It
// prefers the recorded stlFile, then tries ID-derived filenames, then a
// WxH dimension match against the STL files in the directory.
func modelFileForItem(libDir string, item *library.Item) string {
	if item.STLFile != "" {
		path := filepath.Join(libDir, item.STLFile)
		if fileExists(path) {
			return path
		}
	}

	// bin-1x1 -> bin_1x1.stl
	idUnderscore := strings.ReplaceAll(item.ID, "-", "_") + ".stl"
	if path := filepath.Join(libDir, idUnderscore); fileExists(path) {
		return path
	}

	// 1x1-blank -> 1x1-blank.stl
	if path := filepath.Join(libDir, item.ID+".stl"); fileExists(path) {
		return path
	}

	// Fall back to any STL whose name carries the item's dimensions
	dims := fmt.Sprintf("%dx%d", item.WidthUnits, item.HeightUnits)
	matches, err := filepath.Glob(filepath.Join(libDir, "*.stl"))
	if err != nil {
		return ""
	}
	sort.Strings(matches)

	var candidates []string
	for _, path := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(path)), dims) {
			candidates = append(candidates, path)
		}
	}

	if len(candidates) > 1 {
		// Prefer the candidate whose name covers every part of the ID
		idParts := strings.Fields(strings.ReplaceAll(strings.ToLower(item.ID), "-", " "))
		for _, path := range candidates {
			name := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(filepath.Base(path)))
			all := true
			for _, part := range idParts {
				if !strings.Contains(name, part) {
					all = false
					break
				}
			}
			if all {
				return path
			}
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}
