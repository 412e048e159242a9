package csg

import (
	"fmt"

	"github.com/soypat/csg/internal/d3"
)

// Diagnoses reported by Validate.
const (
	ReasonNonManifoldEdges    = "non manifold edges"
	ReasonNonManifoldVertices = "non manifold vertices"
	ReasonSizeInconsistent    = "non size-consistent mesh"
	ReasonNotWatertight       = "non watertight mesh"
	ReasonInconsistentWinding = "inconsistently oriented faces"
)

// InvalidMeshError is returned by Validate when a mesh cannot be rasterized.
type InvalidMeshError struct {
	// Mesh optionally names the offending mesh.
	Mesh   string
	Reason string
	// Count is the number of offending elements.
	Count int
}

func (e *InvalidMeshError) Error() string {
	if e.Mesh != "" {
		return fmt.Sprintf("%s: %s (%d)", e.Mesh, e.Reason, e.Count)
	}
	return fmt.Sprintf("%s (%d)", e.Reason, e.Count)
}

type edgeKey [2]int

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

type edgeUse struct {
	faces []int
	// balance sums +1 for every a->b use with a<b and -1 otherwise.
	balance int
}

// Validate checks that m is a closed, 2-manifold, consistently oriented
// triangle mesh. It returns nil or an *InvalidMeshError carrying the first
// diagnosis found.
func Validate(m *Mesh) error {
	bad, nbad := sizeInconsistentFaces(m)
	edges := make(map[edgeKey]*edgeUse, len(m.Faces)*3/2)
	for fi, f := range m.Faces {
		if bad[fi] {
			continue
		}
		for j := 0; j < 3; j++ {
			a, b := f[j], f[(j+1)%3]
			k := makeEdgeKey(a, b)
			e := edges[k]
			if e == nil {
				e = &edgeUse{}
				edges[k] = e
			}
			e.faces = append(e.faces, fi)
			if a < b {
				e.balance++
			} else {
				e.balance--
			}
		}
	}
	var nonManifold, boundary, misoriented int
	for _, e := range edges {
		switch {
		case len(e.faces) > 2:
			nonManifold++
		case len(e.faces) == 1:
			boundary++
		case e.balance != 0:
			misoriented++
		}
	}
	if nonManifold > 0 {
		return &InvalidMeshError{Reason: ReasonNonManifoldEdges, Count: nonManifold}
	}
	if n := countNonManifoldVertices(m, edges, bad); n > 0 {
		return &InvalidMeshError{Reason: ReasonNonManifoldVertices, Count: n}
	}
	if nbad > 0 {
		return &InvalidMeshError{Reason: ReasonSizeInconsistent, Count: nbad}
	}
	if boundary > 0 {
		return &InvalidMeshError{Reason: ReasonNotWatertight, Count: boundary}
	}
	if misoriented > 0 {
		return &InvalidMeshError{Reason: ReasonInconsistentWinding, Count: misoriented}
	}
	return nil
}

// sizeInconsistentFaces flags faces referencing missing or non-finite
// vertices, or repeating a vertex. Flagged faces are left out of the
// topological checks.
func sizeInconsistentFaces(m *Mesh) (bad []bool, n int) {
	bad = make([]bool, len(m.Faces))
	for fi, f := range m.Faces {
		b := f[0] == f[1] || f[1] == f[2] || f[2] == f[0]
		for _, vi := range f {
			if vi < 0 || vi >= len(m.Vertices) || !d3.Finite(m.Vertices[vi].P) {
				b = true
			}
		}
		if b {
			bad[fi] = true
			n++
		}
	}
	return bad, n
}

// countNonManifoldVertices counts vertices whose incident faces do not form a
// single fan connected through shared edges.
func countNonManifoldVertices(m *Mesh, edges map[edgeKey]*edgeUse, bad []bool) int {
	// Union-find over face corners (face*3 + j).
	parent := make([]int, 3*len(m.Faces))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	corner := func(fi, v int) int {
		f := m.Faces[fi]
		for j := range f {
			if f[j] == v {
				return fi*3 + j
			}
		}
		panic("vertex not in face")
	}
	for k, e := range edges {
		if len(e.faces) != 2 {
			continue
		}
		f1, f2 := e.faces[0], e.faces[1]
		for _, v := range k {
			a, b := find(corner(f1, v)), find(corner(f2, v))
			if a != b {
				parent[a] = b
			}
		}
	}
	roots := make(map[int]map[int]struct{}, len(m.Vertices))
	for fi, f := range m.Faces {
		if bad[fi] {
			continue
		}
		for j, v := range f {
			r := roots[v]
			if r == nil {
				r = make(map[int]struct{}, 1)
				roots[v] = r
			}
			r[find(fi*3+j)] = struct{}{}
		}
	}
	n := 0
	for _, r := range roots {
		if len(r) > 1 {
			n++
		}
	}
	return n
}
