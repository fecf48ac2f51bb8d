package mesh

import (
	"fmt"

	"github.com/hpinc/go3mf"

	"github.com/philipparndt/gridlib/pkg/geometry"
)

// Parse3MF reads a 3MF file and returns one mesh per object resource.
// Build-item transforms are applied to the referenced object's geometry;
// objects assembled purely from components are flattened one level.
func Parse3MF(path string) ([]*Mesh, error) {
	reader, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer reader.Close()

	var model go3mf.Model
	if err := reader.Decode(&model); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("decoding 3MF: %w", err)}
	}

	objects := make(map[uint32]*go3mf.Object, len(model.Resources.Objects))
	for _, obj := range model.Resources.Objects {
		objects[obj.ID] = obj
	}

	var meshes []*Mesh

	// Build items carry the placement transforms; fall back to the raw
	// object list for files without a build section.
	if len(model.Build.Items) > 0 {
		for i, item := range model.Build.Items {
			obj, ok := objects[item.ObjectID]
			if !ok {
				continue
			}
			m := objectMesh(obj, objects, item.Transform)
			if m == nil || m.FaceCount() == 0 {
				continue
			}
			if m.Name == "" {
				m.Name = fmt.Sprintf("Object %d", i+1)
			}
			meshes = append(meshes, m)
		}
	} else {
		for _, obj := range model.Resources.Objects {
			m := objectMesh(obj, objects, go3mf.Matrix{})
			if m == nil || m.FaceCount() == 0 {
				continue
			}
			meshes = append(meshes, m)
		}
	}

	if len(meshes) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no mesh objects found")}
	}
	return meshes, nil
}

// objectMesh converts a 3MF object into a Mesh, resolving component
// references against the resource table.
func objectMesh(obj *go3mf.Object, objects map[uint32]*go3mf.Object, transform go3mf.Matrix) *Mesh {
	m := New(obj.Name)

	if obj.Mesh != nil {
		appendObjectFaces(m, obj.Mesh, transform)
	}

	if obj.Components != nil {
		for _, comp := range obj.Components.Component {
			ref, ok := objects[comp.ObjectID]
			if !ok || ref.Mesh == nil {
				continue
			}
			appendObjectFaces(m, ref.Mesh, combine(transform, comp.Transform))
		}
	}

	return m
}

func appendObjectFaces(m *Mesh, src *go3mf.Mesh, transform go3mf.Matrix) {
	verts := src.Vertices.Vertex
	for _, tri := range src.Triangles.Triangle {
		if int(tri.V1) >= len(verts) || int(tri.V2) >= len(verts) || int(tri.V3) >= len(verts) {
			continue
		}
		face := geometry.NewTriangle(
			geometry.Vector3{},
			applyTransform(transform, verts[tri.V1]),
			applyTransform(transform, verts[tri.V2]),
			applyTransform(transform, verts[tri.V3]),
		)
		face.Normal = face.CalculateNormal()
		m.AddFace(face)
	}
}

// applyTransform applies a 3MF row-major 4x4 matrix to a point. The zero
// matrix is treated as identity, matching untransformed build items.
func applyTransform(t go3mf.Matrix, p go3mf.Point3D) geometry.Vector3 {
	if t == (go3mf.Matrix{}) {
		return geometry.NewVector3(float64(p.X()), float64(p.Y()), float64(p.Z()))
	}
	x, y, z := float64(p.X()), float64(p.Y()), float64(p.Z())
	return geometry.NewVector3(
		x*float64(t[0])+y*float64(t[4])+z*float64(t[8])+float64(t[12]),
		x*float64(t[1])+y*float64(t[5])+z*float64(t[9])+float64(t[13]),
		x*float64(t[2])+y*float64(t[6])+z*float64(t[10])+float64(t[14]),
	)
}

// combine composes two transforms, treating the zero matrix as identity
func combine(outer, inner go3mf.Matrix) go3mf.Matrix {
	if outer == (go3mf.Matrix{}) {
		return inner
	}
	if inner == (go3mf.Matrix{}) {
		return outer
	}
	return outer.Mul(inner)
}
