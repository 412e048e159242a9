package render

import (
	"errors"
	"io"

	"github.com/soypat/csg"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ kdtree.Comparable = weldPoint{}

// weldPoint is a mesh vertex stored in a k-d tree.
type weldPoint struct {
	p     r3.Vec
	index int
}

func (a weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	b := c.(weldPoint)
	switch d {
	case 0:
		return a.p.X - b.p.X
	case 1:
		return a.p.Y - b.p.Y
	}
	return a.p.Z - b.p.Z
}

func (a weldPoint) Dims() int { return 3 }

func (a weldPoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.p, c.(weldPoint).p))
}

// Weld builds an indexed mesh from a triangle soup. Vertices closer than tol
// are merged. Triangles that collapse after welding are dropped.
func Weld(triangles []csg.Triangle3, tol float64) *csg.Mesh {
	var (
		tree kdtree.Tree
		m    csg.Mesh
	)
	tol2 := tol * tol
	index := func(p r3.Vec) int {
		q := weldPoint{p: p}
		if got, d2 := tree.Nearest(q); got != nil && d2 <= tol2 {
			return got.(weldPoint).index
		}
		q.index = m.AddVertex(csg.Vertex{P: p})
		tree.Insert(q, false)
		return q.index
	}
	dropped := 0
	for _, t := range triangles {
		a, b, c := index(t.V[0]), index(t.V[1]), index(t.V[2])
		if a == b || b == c || c == a {
			dropped++
			continue
		}
		m.AddFace(a, b, c)
	}
	if dropped > 0 {
		csg.Logger().Debug("dropped collapsed triangles while welding", "count", dropped, "tol", tol)
	}
	m.UpdateNormals()
	return &m
}

// ReadMesh reads an STL stream and welds it into an indexed mesh. Normal
// mismatches in the file are logged and otherwise ignored.
func ReadMesh(r io.Reader, tol float64) (*csg.Mesh, error) {
	triangles, err := ReadSTL(r)
	if errors.Is(err, ErrNormalMismatch) {
		csg.Logger().Warn("reading STL", "err", err)
	} else if err != nil {
		return nil, err
	}
	return Weld(triangles, tol), nil
}
