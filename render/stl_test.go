package render_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/csg"
	"github.com/soypat/csg/form3"
	"github.com/soypat/csg/internal/d3"
	"github.com/soypat/csg/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLCreateWriteRead(t *testing.T) {
	sphere, err := form3.Sphere(r3.Vec{X: 1}, 2, 16, 8)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sphere.stl")
	if err := render.CreateSTL(path, render.NewMeshRenderer(sphere)); err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewMeshRenderer(sphere))
	if err != nil {
		t.Fatal(err)
	}
	if len(model) != len(sphere.Faces) {
		t.Fatalf("rendered %d triangles, want %d", len(model), len(sphere.Faces))
	}
	var b bytes.Buffer
	if err := render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
	tpath := filepath.Join(t.TempDir(), "triangles.stl")
	if err := render.CreateSTL(tpath, render.NewTriangleRenderer(sphere.Triangles())); err != nil {
		t.Fatal(err)
	}
	tfile, err := os.ReadFile(tpath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(tfile, bfile) {
		t.Fatal("triangle and mesh renderer output mismatch")
	}

	got, err := render.ReadSTL(bytes.NewReader(bfile))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("read %d triangles, want %d", len(got), len(model))
	}
	for i := range got {
		for j := range got[i].V {
			if !d3.EqualWithin(got[i].V[j], model[i].V[j], 1e-6) {
				t.Fatalf("triangle %d vertex %d: got %v, want %v", i, j, got[i].V[j], model[i].V[j])
			}
		}
	}
}

func TestSTLNormalMismatch(t *testing.T) {
	cube, _ := form3.Cube(r3.Vec{}, 1)
	model := cube.Triangles()
	var b bytes.Buffer
	if err := render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	data := b.Bytes()
	// Flip the sign of the first stored normal X component.
	data[84+3] ^= 0x80
	data[84+7] ^= 0x80
	data[84+11] ^= 0x80
	got, err := render.ReadSTL(bytes.NewReader(data))
	if !errors.Is(err, render.ErrNormalMismatch) {
		t.Fatalf("got %v, want ErrNormalMismatch", err)
	}
	if len(got) != len(model) {
		t.Errorf("triangles should still be returned, got %d", len(got))
	}
}

const asciiTetra = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal -1 0 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 0 1 0
    endloop
  endfacet
  facet normal 1 1 1
    outer loop
      vertex 1 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
endsolid tetra
`

func TestReadMeshASCII(t *testing.T) {
	m, err := render.ReadMesh(strings.NewReader(asciiTetra), 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 4 || len(m.Faces) != 4 {
		t.Fatalf("got %d vertices and %d faces, want 4 and 4", len(m.Vertices), len(m.Faces))
	}
	if err := csg.Validate(m); err != nil {
		t.Fatal(err)
	}
	if got := m.Volume(); got < 1./6-1e-12 || got > 1./6+1e-12 {
		t.Errorf("volume %g, want 1/6", got)
	}
	if _, err := render.ReadSTL(strings.NewReader("solid broken\nvertex 0 0 0\nvertex 1 1\n")); err == nil {
		t.Error("expected error for truncated ASCII STL")
	}
}

func TestReadMeshWeld(t *testing.T) {
	sphere, _ := form3.Sphere(r3.Vec{}, 1, 12, 6)
	var b bytes.Buffer
	if err := render.WriteSTL(&b, sphere.Triangles()); err != nil {
		t.Fatal(err)
	}
	m, err := render.ReadMesh(&b, 1e-5)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != len(sphere.Vertices) {
		t.Errorf("welded %d vertices, want %d", len(m.Vertices), len(sphere.Vertices))
	}
	if err := csg.Validate(m); err != nil {
		t.Error(err)
	}
	// A coarse tolerance collapses the small polar triangles away.
	coarse := render.Weld(sphere.Triangles(), 10)
	if len(coarse.Vertices) != 1 || len(coarse.Faces) != 0 {
		t.Errorf("coarse weld: %d vertices, %d faces", len(coarse.Vertices), len(coarse.Faces))
	}
}
