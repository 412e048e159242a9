// Package render turns the output of the intercept package into triangle
// meshes and files: a marching cubes extractor driven by a Walker, STL
// encoding and decoding, and PNG previews of meshes and volume slices.
package render

import (
	"io"

	"github.com/soypat/csg"
)

// Renderer streams triangles. ReadTriangles returns io.EOF once all
// triangles have been read.
type Renderer interface {
	ReadTriangles(t []csg.Triangle3) (int, error)
}

// Sampler is the grid queried by MarchingCubes. intercept.Walker implements it.
type Sampler interface {
	// V returns a positive value for grid points inside the solid.
	V(p csg.V3i) float64
	// Exist returns the vertex already created on the grid edge p1-p2.
	Exist(p1, p2 csg.V3i) (vertex int, ok bool)
	XIntercept(p1, p2 csg.V3i) int
	YIntercept(p1, p2 csg.V3i) int
	ZIntercept(p1, p2 csg.V3i) int
}

type meshRenderer struct {
	m    *csg.Mesh
	next int
}

// NewMeshRenderer returns a Renderer over the faces of m.
func NewMeshRenderer(m *csg.Mesh) Renderer {
	return &meshRenderer{m: m}
}

func (r *meshRenderer) ReadTriangles(t []csg.Triangle3) (n int, err error) {
	for n < len(t) && r.next < len(r.m.Faces) {
		t[n] = r.m.Triangle(r.next)
		n++
		r.next++
	}
	if r.next == len(r.m.Faces) {
		err = io.EOF
	}
	return n, err
}

type triangleRenderer struct {
	triangle3Buffer
}

// NewTriangleRenderer returns a Renderer over a triangle soup.
func NewTriangleRenderer(t []csg.Triangle3) Renderer {
	return &triangleRenderer{triangle3Buffer{buf: t}}
}

func (r *triangleRenderer) ReadTriangles(t []csg.Triangle3) (int, error) {
	n := r.Read(t)
	if r.Len() == 0 {
		return n, io.EOF
	}
	return n, nil
}
