// Package mesh loads triangle meshes from STL and 3MF files and applies
// footprint rotations before rendering.
package mesh

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/philipparndt/gridlib/pkg/geometry"
)

// Mesh is an ordered list of triangular faces with a cached bounding box.
// The cache is recomputed lazily and must be invalidated after any mutation
// of the face slice.
type Mesh struct {
	Name  string
	Faces []geometry.Triangle

	bounds      geometry.BoundingBox
	boundsValid bool
}

// New creates an empty mesh
func New(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddFace appends a face to the mesh
func (m *Mesh) AddFace(face geometry.Triangle) {
	m.Faces = append(m.Faces, face)
	m.boundsValid = false
}

// FaceCount returns the number of faces in the mesh
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// BoundingBox returns the axis-aligned bounding box of all vertices.
// The result is cached until the mesh is mutated.
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	if !m.boundsValid {
		bbox := geometry.NewBoundingBox()
		for _, face := range m.Faces {
			bbox.Extend(face.V1)
			bbox.Extend(face.V2)
			bbox.Extend(face.V3)
		}
		m.bounds = bbox
		m.boundsValid = true
	}
	return m.bounds
}

// InvalidateBounds forces the bounding box to be recomputed on next access
func (m *Mesh) InvalidateBounds() {
	m.boundsValid = false
}

// RotateZ rotates all vertices and face normals about the Z axis through
// the coordinate origin, in place. Face count and order are preserved and
// the cached bounding box is invalidated.
//
// The four canonical angles use exact sine/cosine pairs so that repeated
// quarter turns never accumulate floating-point drift.
func (m *Mesh) RotateZ(degrees float64) {
	if degrees == 0 {
		return
	}

	var sin, cos float64
	switch normalizeAngle(degrees) {
	case 0:
		return
	case 90:
		sin, cos = 1, 0
	case 180:
		sin, cos = 0, -1
	case 270:
		sin, cos = -1, 0
	default:
		sin, cos = math.Sincos(degrees * math.Pi / 180.0)
	}

	for i, face := range m.Faces {
		m.Faces[i] = face.RotatedZ(sin, cos)
	}
	m.boundsValid = false
}

// normalizeAngle maps an angle in degrees onto [0, 360). Angles that are
// not exact multiples of 90 are returned as -1 so callers fall through to
// general trigonometry.
func normalizeAngle(degrees float64) int {
	if degrees != math.Trunc(degrees) {
		return -1
	}
	deg := int(degrees) % 360
	if deg < 0 {
		deg += 360
	}
	if deg%90 != 0 {
		return -1
	}
	return deg
}

// LoadError reports a mesh file that could not be read or parsed
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load mesh %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads a mesh from an STL or 3MF file, chosen by extension.
// For 3MF files with multiple objects the geometry is merged into a single
// mesh; use LoadObjects when per-object meshes are needed.
func Load(path string) (*Mesh, error) {
	meshes, err := LoadObjects(path)
	if err != nil {
		return nil, err
	}
	if len(meshes) == 1 {
		return meshes[0], nil
	}

	merged := New(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	for _, m := range meshes {
		merged.Faces = append(merged.Faces, m.Faces...)
	}
	merged.boundsValid = false
	return merged, nil
}

// LoadObjects reads all objects from a model file. STL files always yield
// exactly one mesh; 3MF files yield one mesh per object.
func LoadObjects(path string) ([]*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		m, err := ParseSTL(path)
		if err != nil {
			return nil, err
		}
		return []*Mesh{m}, nil
	case ".3mf":
		return Parse3MF(path)
	default:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unsupported model format %q", filepath.Ext(path))}
	}
}
