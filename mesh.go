// Package csg holds the value types shared by the Marching Intersections
// engine: integer grid vectors and boxes, the indexed triangle mesh consumed
// and produced by boolean operations, the validity pre-check, and the
// progress and cancellation contract.
package csg

import (
	"math"

	"github.com/soypat/csg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex is a mesh vertex with a position, a normal and a scalar quality
// attribute that is carried through rasterization and reconstruction.
type Vertex struct {
	P r3.Vec
	N r3.Vec
	Q float64
}

// Mesh is an indexed triangle mesh. Faces are wound counter-clockwise when
// seen from outside the solid.
type Mesh struct {
	Vertices []Vertex
	Faces    [][3]int
	// Transform is a pending placement of the mesh. It is applied by
	// WorldSpace and is the identity when zero.
	Transform d3.Transform
}

// Triangle3 is a 3D triangle.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle following the right hand rule.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	n := r3.Cross(e1, e2)
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// Degenerate returns true if two vertices of the triangle are within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t.V[0], t.V[1], tol) ||
		d3.EqualWithin(t.V[1], t.V[2], tol) ||
		d3.EqualWithin(t.V[2], t.V[0], tol)
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(v Vertex) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddFace appends the triangle (a, b, c).
func (m *Mesh) AddFace(a, b, c int) {
	m.Faces = append(m.Faces, [3]int{a, b, c})
}

// Clear removes all vertices and faces, keeping the transform.
func (m *Mesh) Clear() {
	m.Vertices = m.Vertices[:0]
	m.Faces = m.Faces[:0]
}

// Empty reports whether the mesh has no faces.
func (m *Mesh) Empty() bool { return len(m.Faces) == 0 }

// Triangle returns the ith face as a Triangle3, without applying the transform.
func (m *Mesh) Triangle(i int) Triangle3 {
	f := m.Faces[i]
	return Triangle3{V: [3]r3.Vec{m.Vertices[f[0]].P, m.Vertices[f[1]].P, m.Vertices[f[2]].P}}
}

// Triangles returns every face as a Triangle3.
func (m *Mesh) Triangles() []Triangle3 {
	t := make([]Triangle3, len(m.Faces))
	for i := range m.Faces {
		t[i] = m.Triangle(i)
	}
	return t
}

// FaceNormal returns the unit normal of the ith face.
func (m *Mesh) FaceNormal(i int) r3.Vec {
	return m.Triangle(i).Normal()
}

// Bounds returns the bounding box of the referenced vertices.
func (m *Mesh) Bounds() r3.Box {
	bb := d3.EmptyBox()
	for _, f := range m.Faces {
		for _, vi := range f {
			bb = bb.Include(m.Vertices[vi].P)
		}
	}
	if bb.Empty() {
		return r3.Box{}
	}
	return r3.Box(bb)
}

// Volume returns the signed volume enclosed by the mesh. It is positive for a
// closed mesh with outward facing triangles.
func (m *Mesh) Volume() float64 {
	var v float64
	for i := range m.Faces {
		t := m.Triangle(i)
		v += r3.Dot(t.V[0], r3.Cross(t.V[1], t.V[2]))
	}
	return v / 6
}

// Area returns the total surface area.
func (m *Mesh) Area() float64 {
	var a float64
	for i := range m.Faces {
		t := m.Triangle(i)
		a += r3.Norm(r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0])))
	}
	return a / 2
}

// WorldSpace returns a copy of the mesh with its pending transform applied.
// Vertex normals are recomputed from the transformed faces and the face
// winding is reversed when the transform mirrors space, so the copy is always
// ready for rasterization.
func (m *Mesh) WorldSpace() *Mesh {
	w := &Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	flip := m.Transform.Det() < 0
	for i, v := range m.Vertices {
		w.Vertices[i] = Vertex{P: m.Transform.Apply(v.P), Q: v.Q}
	}
	for i, f := range m.Faces {
		if flip {
			f[1], f[2] = f[2], f[1]
		}
		w.Faces[i] = f
	}
	w.UpdateNormals()
	return w
}

// UpdateNormals sets every vertex normal to the angle weighted average of the
// normals of its incident faces.
func (m *Mesh) UpdateNormals() {
	for i := range m.Vertices {
		m.Vertices[i].N = r3.Vec{}
	}
	for i, f := range m.Faces {
		t := m.Triangle(i)
		n := t.Normal()
		for j, vi := range f {
			e1 := r3.Sub(t.V[(j+1)%3], t.V[j])
			e2 := r3.Sub(t.V[(j+2)%3], t.V[j])
			c := r3.Cos(e1, e2)
			if math.IsNaN(c) {
				continue
			}
			alpha := math.Acos(math.Max(-1, math.Min(1, c)))
			m.Vertices[vi].N = r3.Add(m.Vertices[vi].N, r3.Scale(alpha, n))
		}
	}
	for i := range m.Vertices {
		if l := r3.Norm(m.Vertices[i].N); l > 0 {
			m.Vertices[i].N = r3.Scale(1/l, m.Vertices[i].N)
		}
	}
}
