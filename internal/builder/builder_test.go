package builder

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/gridlib/pkg/geometry"
	"github.com/philipparndt/gridlib/pkg/library"
	"github.com/philipparndt/gridlib/pkg/mesh"
)

// writePlateSTL writes an ASCII STL of a flat w x d plate at z=0
func writePlateSTL(t *testing.T, path string, w, d float64) {
	t.Helper()
	content := fmt.Sprintf(`solid plate
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex %[1]g 0 0
vertex %[1]g %[2]g 0
endloop
endfacet
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex %[1]g %[2]g 0
vertex 0 %[2]g 0
endloop
endfacet
endsolid plate
`, w, d)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindModelFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.stl", "a.stl", "c.3mf", "notes.txt", "upper.STL"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.stl"), 0o755); err != nil {
		t.Fatal(err)
	}

	stl, threeMF, err := FindModelFiles(dir)
	if err != nil {
		t.Fatal(err)
	}

	var stlNames []string
	for _, p := range stl {
		stlNames = append(stlNames, filepath.Base(p))
	}
	if strings.Join(stlNames, ",") != "a.stl,b.stl,upper.STL" {
		t.Errorf("stl files = %v", stlNames)
	}
	if len(threeMF) != 1 || filepath.Base(threeMF[0]) != "c.3mf" {
		t.Errorf("3mf files = %v", threeMF)
	}
}

func plateMesh(w, d float64) *mesh.Mesh {
	m := mesh.New("plate")
	up := geometry.NewVector3(0, 0, 1)
	m.AddFace(geometry.NewTriangle(up,
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(w, 0, 0),
		geometry.NewVector3(w, d, 0)))
	m.AddFace(geometry.NewTriangle(up,
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(w, d, 0),
		geometry.NewVector3(0, d, 0)))
	return m
}

func TestNeedsRotation(t *testing.T) {
	cases := []struct {
		name          string
		x, y          float64
		width, height int
		want          bool
	}{
		{"matching portrait", 40, 84, 1, 2, false},
		{"contradicting landscape", 40, 84, 2, 1, true},
		{"square filename", 40, 84, 2, 2, false},
		{"square geometry", 40, 40, 1, 2, false},
		{"matching landscape", 84, 40, 2, 1, false},
	}
	for _, c := range cases {
		if got := needsRotation(plateMesh(c.x, c.y), c.width, c.height); got != c.want {
			t.Errorf("%s: needsRotation = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestBestAlignmentAngle(t *testing.T) {
	// A 40x10 plate rotated 30 degrees realigns at a further 60
	m := plateMesh(40, 10)
	m.RotateZ(30)

	got := bestAlignmentAngle(m)
	if got != 60 {
		t.Errorf("bestAlignmentAngle = %d, want 60", got)
	}
}

func TestAlignToAxesRestoresFootprint(t *testing.T) {
	m := plateMesh(40, 10)
	m.RotateZ(30)

	AlignToAxes(m)

	size := m.BoundingBox().Size()
	long := math.Max(size.X, size.Y)
	short := math.Min(size.X, size.Y)
	if math.Abs(long-40) > 0.01 || math.Abs(short-10) > 0.01 {
		t.Errorf("aligned footprint = %.3f x %.3f, want 40 x 10", size.X, size.Y)
	}
}

func TestBuildNonInteractive(t *testing.T) {
	dir := t.TempDir()
	writePlateSTL(t, filepath.Join(dir, "Bin 1x2.stl"), 40, 84)
	writePlateSTL(t, filepath.Join(dir, "no dimensions.stl"), 40, 40)

	result, err := Build(Options{
		Directory:      dir,
		ColorHex:       "#3B82F6",
		NonInteractive: true,
		SkipExisting:   true,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if result.Successes != 1 || result.Failures != 1 {
		t.Errorf("successes = %d, failures = %d, want 1 and 1", result.Successes, result.Failures)
	}

	lib, err := library.Read(result.IndexPath)
	if err != nil {
		t.Fatalf("reading index: %v", err)
	}
	if len(lib.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(lib.Items))
	}

	item := lib.Items[0]
	if item.ID != "bin-1x2" {
		t.Errorf("id = %q", item.ID)
	}
	if item.Name != "1x2 Bin" {
		t.Errorf("name = %q", item.Name)
	}
	if item.WidthUnits != 1 || item.HeightUnits != 2 {
		t.Errorf("units = %dx%d", item.WidthUnits, item.HeightUnits)
	}
	if item.Color != "#3B82F6" {
		t.Errorf("color = %q", item.Color)
	}
	if item.STLFile != "Bin 1x2.stl" {
		t.Errorf("stlFile = %q", item.STLFile)
	}

	if !fileExists(filepath.Join(dir, item.ImageURL)) {
		t.Errorf("preview %s not rendered", item.ImageURL)
	}
}

func TestBuildIntoLibrarySubfolder(t *testing.T) {
	dir := t.TempDir()
	writePlateSTL(t, filepath.Join(dir, "tray 2x1.stl"), 84, 40)

	result, err := Build(Options{
		Directory:      dir,
		ColorHex:       "#EF4444",
		LibraryName:    "trays",
		NonInteractive: true,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	wantIndex := filepath.Join(dir, "trays", "index.json")
	if result.IndexPath != wantIndex {
		t.Errorf("index path = %q, want %q", result.IndexPath, wantIndex)
	}
	if !fileExists(wantIndex) {
		t.Error("index.json missing in library subfolder")
	}
}

func TestBuildPromptsForDimensions(t *testing.T) {
	dir := t.TempDir()
	writePlateSTL(t, filepath.Join(dir, "mystery.stl"), 40, 84)

	result, err := Build(Options{
		Directory: dir,
		ColorHex:  "#10B981",
		Input:     strings.NewReader("1\n2\n"),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Successes != 1 {
		t.Fatalf("successes = %d, want 1", result.Successes)
	}

	lib, err := library.Read(result.IndexPath)
	if err != nil {
		t.Fatal(err)
	}
	if lib.Items[0].WidthUnits != 1 || lib.Items[0].HeightUnits != 2 {
		t.Errorf("prompted units = %dx%d, want 1x2", lib.Items[0].WidthUnits, lib.Items[0].HeightUnits)
	}
}

func TestBuildEmptyDirectory(t *testing.T) {
	if _, err := Build(Options{Directory: t.TempDir(), NonInteractive: true}); err == nil {
		t.Error("expected error for directory without model files")
	}
}
