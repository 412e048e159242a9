package render

import (
	"math/bits"

	"github.com/soypat/csg"
	"gonum.org/v1/gonum/spatial/r3"
)

// Cube corner k sits at offset (k&1, k>>1&1, k>>2&1) from the cell's lower
// corner. Edge e is parallel to axis e/4; bits 0 and 1 of e give the offset
// of its lower corner along axes (axis+1)%3 and (axis+2)%3.

// mcCase is the surface of one corner configuration: closed loops of
// crossed edges wound counter-clockwise when seen from outside.
type mcCase struct {
	loops [][]int
	// ambiguous is set when a cube face has two diagonal corners inside.
	ambiguous bool
}

var mcTable [256]mcCase

func init() {
	for mask := range mcTable {
		mcTable[mask] = buildCase(uint8(mask))
	}
}

func cornerOffset(k int) csg.V3i { return csg.V3i{k & 1, k >> 1 & 1, k >> 2 & 1} }

// edgeCorners returns the lower and upper corners of edge e.
func edgeCorners(e int) (lo, hi int) {
	axis := e / 4
	u, v := (axis+1)%3, (axis+2)%3
	lo = (e&1)<<u | (e>>1&1)<<v
	return lo, lo | 1<<axis
}

// edgeBetween returns the edge joining two adjacent corners.
func edgeBetween(a, b int) int {
	axis := bits.TrailingZeros(uint(a ^ b))
	lo := min(a, b)
	u, v := (axis+1)%3, (axis+2)%3
	return axis*4 + (lo>>u&1 | (lo>>v&1)<<1)
}

// faceCorners returns the corners of the cube face orthogonal to axis on
// the given side, counter-clockwise when seen from outside the cube.
func faceCorners(axis, side int) [4]int {
	u, v := (axis+1)%3, (axis+2)%3
	var q [4]int
	for i, p := range [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		q[i] = side<<axis | p[0]<<u | p[1]<<v
	}
	if side == 0 {
		q[0], q[1], q[2], q[3] = q[3], q[2], q[1], q[0]
	}
	return q
}

func buildCase(mask uint8) mcCase {
	inside := func(k int) bool { return mask>>k&1 == 1 }
	var next [12]int
	for i := range next {
		next[i] = -1
	}
	var c mcCase
	for axis := 0; axis < 3; axis++ {
		for side := 0; side < 2; side++ {
			q := faceCorners(axis, side)
			type crossing struct {
				edge     int
				entering bool
			}
			var xs []crossing
			for i := range q {
				a, b := q[i], q[(i+1)%4]
				if inside(a) != inside(b) {
					xs = append(xs, crossing{edge: edgeBetween(a, b), entering: inside(b)})
				}
			}
			if len(xs) == 4 {
				c.ambiguous = true
			}
			// Each entering crossing is joined to the following leaving one,
			// which keeps inside corners of an ambiguous face apart.
			for i, x := range xs {
				if x.entering {
					next[x.edge] = xs[(i+1)%len(xs)].edge
				}
			}
		}
	}
	var visited [12]bool
	for e := range next {
		if next[e] < 0 || visited[e] {
			continue
		}
		var loop []int
		for cur := e; !visited[cur]; cur = next[cur] {
			visited[cur] = true
			loop = append(loop, cur)
		}
		c.loops = append(c.loops, loop)
	}
	return c
}

// MarchingCubes is a surface extractor producing a closed, oriented mesh
// from the in/out classification of grid corners. Vertices on grid edges are
// obtained from the Sampler, so their positions come from exact crossings.
type MarchingCubes struct {
	m *csg.Mesh
	s Sampler

	cells, faces, centers, degenerate int
}

// NewMarchingCubes returns an extractor adding faces to m.
func NewMarchingCubes(m *csg.Mesh, s Sampler) *MarchingCubes {
	return &MarchingCubes{m: m, s: s}
}

// Initialize resets the extractor counters.
func (mc *MarchingCubes) Initialize() {
	mc.cells, mc.faces, mc.centers, mc.degenerate = 0, 0, 0, 0
}

// ProcessCell triangulates the unit cell with lower corner lo. hi is lo+(1,1,1).
func (mc *MarchingCubes) ProcessCell(lo, hi csg.V3i) {
	var corners [8]csg.V3i
	mask := 0
	for k := range corners {
		corners[k] = lo.Add(cornerOffset(k))
		if mc.s.V(corners[k]) > 0 {
			mask |= 1 << k
		}
	}
	c := &mcTable[mask]
	if len(c.loops) == 0 {
		return
	}
	mc.cells++
	var verts [12]int
	for _, loop := range c.loops {
		for _, e := range loop {
			a, b := edgeCorners(e)
			verts[e] = mc.vertex(e/4, corners[a], corners[b])
		}
	}
	for _, loop := range c.loops {
		if len(loop) == 3 || !c.ambiguous {
			v0 := verts[loop[0]]
			for i := 1; i+1 < len(loop); i++ {
				mc.addFace(v0, verts[loop[i]], verts[loop[i+1]])
			}
			continue
		}
		center := mc.center(loop, &verts)
		for i := range loop {
			mc.addFace(center, verts[loop[i]], verts[loop[(i+1)%len(loop)]])
		}
	}
}

// Finalize logs extraction statistics.
func (mc *MarchingCubes) Finalize() {
	csg.Logger().Debug("marching cubes",
		"cells", mc.cells, "faces", mc.faces, "centers", mc.centers, "degenerate", mc.degenerate)
}

func (mc *MarchingCubes) vertex(axis int, p1, p2 csg.V3i) int {
	if vi, ok := mc.s.Exist(p1, p2); ok {
		return vi
	}
	switch axis {
	case 0:
		return mc.s.XIntercept(p1, p2)
	case 1:
		return mc.s.YIntercept(p1, p2)
	}
	return mc.s.ZIntercept(p1, p2)
}

// center adds a vertex at the average of the loop vertices.
func (mc *MarchingCubes) center(loop []int, verts *[12]int) int {
	var c csg.Vertex
	for _, e := range loop {
		v := mc.m.Vertices[verts[e]]
		c.P = r3.Add(c.P, v.P)
		c.N = r3.Add(c.N, v.N)
		c.Q += v.Q
	}
	n := float64(len(loop))
	c.P = r3.Scale(1/n, c.P)
	c.Q /= n
	if l := r3.Norm(c.N); l > 0 {
		c.N = r3.Scale(1/l, c.N)
	}
	mc.centers++
	return mc.m.AddVertex(c)
}

func (mc *MarchingCubes) addFace(a, b, c int) {
	if a == b || b == c || c == a {
		// Two grid edges resolved to the same crossing.
		mc.degenerate++
		return
	}
	mc.faces++
	mc.m.AddFace(a, b, c)
}
