package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/gridlib/pkg/geometry"
)

// ParseSTL reads an STL file and returns its mesh.
// The format (ASCII or binary) is detected automatically.
func ParseSTL(path string) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	// ASCII files start with "solid "; binary files start with an
	// arbitrary 80-byte header.
	header := make([]byte, 6)
	n, err := file.Read(header)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("reading header: %w", err)}
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var m *Mesh
	if n >= 5 && strings.HasPrefix(string(header[:5]), "solid") {
		m, err = parseASCIISTL(file)
	} else {
		m, err = parseBinarySTL(file)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	normalizeFaceNormals(m)
	return m, nil
}

// normalizeFaceNormals brings all face normals to unit length. Faces whose
// stored normal is zero get one computed from the vertex winding instead.
func normalizeFaceNormals(m *Mesh) {
	for i, face := range m.Faces {
		if face.Normal.Length() == 0 {
			m.Faces[i].Normal = face.CalculateNormal()
		} else {
			m.Faces[i].Normal = face.Normal.Normalize()
		}
	}
}

func parseASCIISTL(reader io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(reader)
	m := New("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3

	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				m.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				x, _ := strconv.ParseFloat(fields[2], 64)
				y, _ := strconv.ParseFloat(fields[3], 64)
				z, _ := strconv.ParseFloat(fields[4], 64)
				currentNormal = geometry.NewVector3(x, y, z)
			}

		case "vertex":
			if len(fields) >= 4 {
				x, _ := strconv.ParseFloat(fields[1], 64)
				y, _ := strconv.ParseFloat(fields[2], 64)
				z, _ := strconv.ParseFloat(fields[3], 64)
				vertices = append(vertices, geometry.NewVector3(x, y, z))
			}

		case "endfacet":
			if len(vertices) == 3 {
				m.AddFace(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			}
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ASCII STL: %w", err)
	}
	return m, nil
}

func parseBinarySTL(reader io.Reader) (*Mesh, error) {
	m := New("")

	header := make([]byte, 80)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("reading binary header: %w", err)
	}
	if name := string(bytes.TrimRight(header, "\x00")); name != "" {
		m.Name = strings.TrimSpace(name)
	}

	var faceCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &faceCount); err != nil {
		return nil, fmt.Errorf("reading face count: %w", err)
	}

	// 12 float32 fields plus the attribute byte count per face
	var record struct {
		Normal     [3]float32
		V1, V2, V3 [3]float32
		Attribute  uint16
	}

	for i := uint32(0); i < faceCount; i++ {
		if err := binary.Read(reader, binary.LittleEndian, &record); err != nil {
			return nil, fmt.Errorf("reading face %d: %w", i, err)
		}
		m.AddFace(geometry.NewTriangle(
			vec3FromF32(record.Normal),
			vec3FromF32(record.V1),
			vec3FromF32(record.V2),
			vec3FromF32(record.V3),
		))
	}

	return m, nil
}

func vec3FromF32(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}
