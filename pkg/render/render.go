// Package render turns triangle meshes into 2D preview images. Two
// strategies are available: a top-down orthographic painter's-algorithm
// view and a z-buffered pinhole-perspective view. Both write PNG files
// with a transparent background.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/philipparndt/gridlib/pkg/mesh"
)

// Mode selects the rendering strategy. It is resolved once by the caller,
// not probed per call.
type Mode int

const (
	ModeOrthographic Mode = iota
	ModePerspective
)

func (m Mode) String() string {
	switch m {
	case ModeOrthographic:
		return "orthographic"
	case ModePerspective:
		return "perspective"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Default parameter values shared with the CLI
const (
	DefaultMaxDimension = 800
	DefaultDPI          = 100
	DefaultCameraTilt   = 22.5
	DefaultFOV          = 45.0
)

// Options holds the tunable render parameters. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	MaxDimension int     // longest output side in pixels
	DPI          int     // resampling hint, orthographic mode only
	CameraTilt   float64 // degrees from straight down, perspective only
	FOV          float64 // vertical field of view in degrees, perspective only
	Rotation     float64 // Z rotation applied to the mesh before rendering
	Quiet        bool    // suppress progress output
}

// DefaultOptions returns the parameter set used by the batch tools
func DefaultOptions() Options {
	return Options{
		MaxDimension: DefaultMaxDimension,
		DPI:          DefaultDPI,
		CameraTilt:   DefaultCameraTilt,
		FOV:          DefaultFOV,
	}
}

// EncodeError reports an output image that could not be written
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to write image %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// ProjectionError reports a failure inside projection or rasterization.
// The camera clamping makes these unexpected; they surface only via the
// recover boundary in RenderMesh.
type ProjectionError struct {
	Mesh  string
	Cause any
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Mesh, e.Cause)
}

// Renderer renders meshes with a fixed strategy. It holds no per-render
// state; a single Renderer may be shared across goroutines.
type Renderer struct {
	mode Mode
}

// NewRenderer creates a renderer for the given mode
func NewRenderer(mode Mode) *Renderer {
	return &Renderer{mode: mode}
}

// Mode returns the renderer's strategy
func (r *Renderer) Mode() Mode {
	return r.mode
}

// RenderFile loads a model file, applies the rotation from opts and writes
// a PNG preview. All failures come back as errors (*mesh.LoadError or
// *EncodeError where the cause is known); nothing panics past this
// boundary.
func (r *Renderer) RenderFile(modelPath, outputPath string, opts Options) error {
	m, err := mesh.Load(modelPath)
	if err != nil {
		return err
	}
	return r.RenderMesh(m, outputPath, opts)
}

// RenderMesh renders an already-loaded mesh to a PNG file. The mesh is
// rotated in place when opts.Rotation is non-zero.
func (r *Renderer) RenderMesh(m *mesh.Mesh, outputPath string, opts Options) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &ProjectionError{Mesh: m.Name, Cause: rec}
		}
	}()

	if opts.Rotation != 0 {
		m.RotateZ(opts.Rotation)
	}

	var img *image.NRGBA
	switch r.mode {
	case ModePerspective:
		img = renderPerspective(m, opts.CameraTilt, opts.FOV, opts.MaxDimension)
	default:
		img = renderOrthographic(m, opts.MaxDimension, opts.DPI)
	}

	if err := writePNG(outputPath, img); err != nil {
		return err
	}

	if !opts.Quiet {
		bounds := img.Bounds()
		fmt.Printf("Rendered %s to %s (%dx%d, %s)\n",
			m.Name, outputPath, bounds.Dx(), bounds.Dy(), r.mode)
	}
	return nil
}

// writePNG encodes into a temporary file in the target directory and
// renames it over the destination, so a failed render never leaves a
// partial file behind.
func writePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &EncodeError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &EncodeError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}
