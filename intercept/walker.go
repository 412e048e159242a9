package intercept

import (
	"context"
	"slices"

	"github.com/soypat/csg"
	"github.com/soypat/csg/internal/d3"
)

const (
	stagePrecompute  = "Precomputing in/out table..."
	stageReconstruct = "Reconstructing surface..."

	// checkEvery is how many cells are processed between progress reports.
	checkEvery = 256
)

// Extractor turns grid cells into surface triangles. It is driven by a
// Walker and queries the Walker for corner classification and vertices.
type Extractor interface {
	Initialize()
	// ProcessCell handles the unit cell with corners lo and hi = lo+(1,1,1).
	ProcessCell(lo, hi csg.V3i)
	Finalize()
}

// Walker reconstructs a mesh from a Volume by visiting only the cells that
// contain crossings. Corner classifications are cached and vertices are
// shared between the cells that touch the same crossing.
type Walker struct {
	vol      *Volume
	mesh     *csg.Mesh
	cells    []csg.V3i
	samples  map[csg.V3i]float64
	vertices map[Key]int
	// midpoints holds vertices of sign changing edges without a crossing,
	// keyed by the edge's lower coordinate instead of a ray index.
	midpoints map[Key]int

	inconsistent int
	missing      int
}

// NewWalker returns a Walker ready for BuildMesh.
func NewWalker() *Walker {
	return &Walker{}
}

// BuildMesh clears m and fills it with the surface of vol as produced by ext.
// ext is expected to call back into the Walker through V, Exist and the
// axis intercept methods. On cancellation m is left empty and
// csg.ErrCancelled is returned.
func (w *Walker) BuildMesh(ctx context.Context, m *csg.Mesh, vol *Volume, ext Extractor, progress csg.ProgressFunc) error {
	m.Clear()
	w.vol = vol
	w.mesh = m
	w.samples = make(map[csg.V3i]float64)
	w.vertices = make(map[Key]int)
	w.midpoints = make(map[Key]int)
	w.inconsistent = 0
	w.missing = 0
	w.collectCells()

	total := float64(len(w.cells))
	for i, c := range w.cells {
		if i%checkEvery == 0 {
			if err := csg.Checkpoint(ctx, progress, 100*float64(i)/total, stagePrecompute); err != nil {
				m.Clear()
				return err
			}
		}
		for k := 0; k < 8; k++ {
			p := c.Add(csg.V3i{k & 1, k >> 1 & 1, k >> 2 & 1})
			if _, ok := w.samples[p]; !ok {
				w.samples[p] = w.sample(p)
			}
		}
	}

	ext.Initialize()
	for i, c := range w.cells {
		if i%checkEvery == 0 {
			if err := csg.Checkpoint(ctx, progress, 100*float64(i)/total, stageReconstruct); err != nil {
				m.Clear()
				return err
			}
		}
		ext.ProcessCell(c, c.AddScalar(1))
	}
	ext.Finalize()
	csg.Logger().Debug("reconstructed surface",
		"cells", len(w.cells), "samples", len(w.samples),
		"vertices", len(m.Vertices), "faces", len(m.Faces),
		"inconsistent", w.inconsistent, "missing", w.missing)
	return nil
}

// collectCells gathers the sorted set of cells adjacent to a crossing.
func (w *Walker) collectCells() {
	set := make(map[csg.V3i]struct{})
	for c0 := 0; c0 < 3; c0++ {
		c1, c2 := (c0+1)%3, (c0+2)%3
		beam := w.vol.Beam(c0)
		box := beam.Box
		for x := box.Min[0]; x <= box.Max[0]; x++ {
			for y := box.Min[1]; y <= box.Max[1]; y++ {
				for _, it := range beam.Ray(csg.V2i{x, y}).Intercepts() {
					k, exact := floorRat(it.Dist)
					var p csg.V3i
					for _, pc := range [2]int{k, k - 1} {
						p[c0] = pc
						for _, px := range [2]int{x - 1, x} {
							p[c1] = px
							for _, py := range [2]int{y - 1, y} {
								p[c2] = py
								set[p] = struct{}{}
							}
						}
						if !exact {
							break
						}
					}
				}
			}
		}
	}
	w.cells = make([]csg.V3i, 0, len(set))
	for p := range set {
		w.cells = append(w.cells, p)
	}
	slices.SortFunc(w.cells, func(a, b csg.V3i) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
}

func (w *Walker) sample(p csg.V3i) float64 {
	switch w.vol.IsIn(p) {
	case 1:
		return 1
	case 0:
		w.inconsistent++
	}
	return -1
}

// Cells returns the number of cells visited by the last BuildMesh.
func (w *Walker) Cells() int { return len(w.cells) }

// Inconsistencies returns the number of grid corners on which the three
// axes disagreed during the last BuildMesh.
func (w *Walker) Inconsistencies() int { return w.inconsistent }

// MissingCrossings returns the number of sign changing grid edges that had
// no crossing during the last BuildMesh. Their vertices are placed at the
// edge midpoint.
func (w *Walker) MissingCrossings() int { return w.missing }

// V returns 1 if p is inside the solid and -1 otherwise.
func (w *Walker) V(p csg.V3i) float64 {
	if v, ok := w.samples[p]; ok {
		return v
	}
	v := w.sample(p)
	w.samples[p] = v
	return v
}

// Exist returns the index of the vertex already created on the grid edge
// p1-p2, if any.
func (w *Walker) Exist(p1, p2 csg.V3i) (vertex int, ok bool) {
	axis, lo := edgeAxis(p1, p2)
	_, key, found := w.edgeCrossing(axis, lo)
	if !found {
		vertex, ok = w.midpoints[midpointKey(axis, lo)]
		return vertex, ok
	}
	vertex, ok = w.vertices[key]
	return vertex, ok
}

// XIntercept returns the vertex on the grid edge p1-p2 parallel to X,
// creating it on first use.
func (w *Walker) XIntercept(p1, p2 csg.V3i) int { return w.edgeVertex(0, p1, p2) }

// YIntercept is XIntercept for edges parallel to Y.
func (w *Walker) YIntercept(p1, p2 csg.V3i) int { return w.edgeVertex(1, p1, p2) }

// ZIntercept is XIntercept for edges parallel to Z.
func (w *Walker) ZIntercept(p1, p2 csg.V3i) int { return w.edgeVertex(2, p1, p2) }

func (w *Walker) edgeVertex(axis int, p1, p2 csg.V3i) int {
	a, lo := edgeAxis(p1, p2)
	if a != axis {
		panic("grid edge is not parallel to the requested axis")
	}
	x, key, found := w.edgeCrossing(axis, lo)
	if !found {
		// The corners disagree but the line has no crossing between them
		// in the matching direction.
		// Place a vertex at the edge midpoint so the surface stays closed.
		key = midpointKey(axis, lo)
		if vi, ok := w.midpoints[key]; ok {
			return vi
		}
		w.missing++
		csg.Logger().Warn("no crossing on sign changing grid edge", "axis", axis, "point", lo)
		pos := d3.MulElem(lo.ToV3(), w.vol.Delta)
		pos = d3.Set(pos, axis, d3.Get(pos, axis)+0.5*d3.Get(w.vol.Delta, axis))
		vi := w.mesh.AddVertex(csg.Vertex{P: pos})
		w.midpoints[key] = vi
		return vi
	}
	if vi, ok := w.vertices[key]; ok {
		return vi
	}
	pos := d3.MulElem(lo.ToV3(), w.vol.Delta)
	pos = d3.Set(pos, axis, x.Float()*d3.Get(w.vol.Delta, axis))
	vi := w.mesh.AddVertex(csg.Vertex{P: pos, N: x.Norm, Q: x.Quality})
	w.vertices[key] = vi
	return vi
}

// edgeCrossing returns the crossing that accounts for the sign change on
// the grid edge [lo, lo+e_axis]. Matching the crossing direction with the
// corner classification keeps a crossing lying exactly on a grid point from
// being shared by both edges that meet there.
func (w *Walker) edgeCrossing(axis int, lo csg.V3i) (Intercept, Key, bool) {
	entering := w.V(lo) < 0 && w.V(lo.Add(csg.Unit(axis))) > 0
	return w.vol.EdgeIntercept(axis, lo, entering)
}

func midpointKey(axis int, lo csg.V3i) Key {
	return Key{Axis: axis, Line: lo.Line(axis), Index: lo[axis]}
}

// edgeAxis returns the axis of the unit grid edge p1-p2 and its lower end.
func edgeAxis(p1, p2 csg.V3i) (int, csg.V3i) {
	if p2.Less(p1) {
		p1, p2 = p2, p1
	}
	d := p2.Sub(p1)
	for axis := 0; axis < 3; axis++ {
		if d == csg.Unit(axis) {
			return axis, p1
		}
	}
	panic("points are not the ends of a unit grid edge: " + p1.String() + " " + p2.String())
}
