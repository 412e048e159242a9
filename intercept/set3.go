package intercept

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/soypat/csg"
	"github.com/soypat/csg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultPrecision is the default number of subdivisions of a grid cell
	// that vertex coordinates are rounded to.
	DefaultPrecision = 32

	// maxScaled bounds the scaled vertex coordinates so that edge functions
	// and face normals fit in an int64.
	maxScaled = 1 << 29

	stageRasterize = "Rasterizing mesh..."
)

// ErrOutOfRange is returned when a vertex is too far from the origin,
// measured in grid subdivisions, to be rasterized exactly.
var ErrOutOfRange = errors.New("vertex coordinate out of exact range")

// Set3 rasterizes a closed mesh into three sets of grid line crossings.
type Set3 struct {
	Delta     r3.Vec
	BBox      csg.Box3i
	Precision int
	sets      [3]Set2
}

type scaledVec [3]int64

// NewSet3 rasterizes m on the grid of spacing delta. Vertices are rounded to
// 1/precision of a grid cell. The mesh must be closed and consistently
// oriented, see csg.Validate. Progress is reported once per face.
func NewSet3(ctx context.Context, m *csg.Mesh, delta r3.Vec, precision int, progress csg.ProgressFunc) (*Set3, error) {
	if precision <= 0 {
		return nil, fmt.Errorf("non positive precision %d", precision)
	}
	if d3.LTEZero(delta) || !d3.Finite(delta) {
		return nil, fmt.Errorf("invalid grid spacing %v", delta)
	}
	s := &Set3{Delta: delta, Precision: precision}
	bb := m.Bounds()
	for c := 0; c < 3; c++ {
		d := d3.Get(delta, c)
		s.BBox.Min[c] = int(math.Floor(d3.Get(bb.Min, c)/d)) - 1
		s.BBox.Max[c] = int(math.Ceil(d3.Get(bb.Max, c)/d)) + 1
	}
	for axis := range s.sets {
		s.sets[axis] = NewSet2(s.BBox.Plane(axis))
	}

	scaled := make([]scaledVec, len(m.Vertices))
	done := make([]bool, len(m.Vertices))
	nf := float64(len(m.Faces))
	for fi, f := range m.Faces {
		if err := csg.Checkpoint(ctx, progress, 100*float64(fi)/nf, stageRasterize); err != nil {
			return nil, err
		}
		var v [3]scaledVec
		var q [3]float64
		for k, vi := range f {
			if !done[vi] {
				sv, err := s.scale(m.Vertices[vi].P)
				if err != nil {
					return nil, fmt.Errorf("vertex %d: %w", vi, err)
				}
				scaled[vi], done[vi] = sv, true
			}
			v[k] = scaled[vi]
			q[k] = m.Vertices[vi].Q
		}
		norm := m.FaceNormal(fi)
		for axis := 0; axis < 3; axis++ {
			s.rasterize(axis, v, norm, q)
		}
	}
	return s, nil
}

// scale converts p to grid subdivisions.
func (s *Set3) scale(p r3.Vec) (sv scaledVec, err error) {
	for c := 0; c < 3; c++ {
		f := math.Round(d3.Get(p, c) / d3.Get(s.Delta, c) * float64(s.Precision))
		if !(math.Abs(f) <= maxScaled) {
			return sv, fmt.Errorf("%w: %g", ErrOutOfRange, d3.Get(p, c))
		}
		sv[c] = int64(f)
	}
	return sv, nil
}

// rasterize adds the crossings of the triangle v with every grid line
// parallel to axis c0.
func (s *Set3) rasterize(c0 int, v [3]scaledVec, norm r3.Vec, q [3]float64) {
	c1, c2 := (c0+1)%3, (c0+2)%3
	p := int64(s.Precision)
	n := cross64(sub64(v[1], v[0]), sub64(v[2], v[0]))
	if n[c0] == 0 {
		// Triangle is parallel to the lines.
		return
	}
	lo1 := ceilDiv(min(v[0][c1], v[1][c1], v[2][c1]), p)
	hi1 := floorDiv(max(v[0][c1], v[1][c1], v[2][c1]), p)
	lo2 := ceilDiv(min(v[0][c2], v[1][c2], v[2][c2]), p)
	hi2 := floorDiv(max(v[0][c2], v[1][c2], v[2][c2]), p)
	plane := s.sets[c0].Box
	for x := lo1; x <= hi1; x++ {
		for y := lo2; y <= hi2; y++ {
			line := csg.V2i{int(x), int(y)}
			if !plane.Contains(line) {
				continue
			}
			X, Y := x*p, y*p
			var e [3]int64
			sign, hit := 0, true
			for k := 0; k < 3 && hit; k++ {
				vi, vj := v[(k+1)%3], v[(k+2)%3]
				e[k] = edgeFunc(vi, vj, c1, c2, X, Y)
				sg := sign64(e[k])
				if sg == 0 {
					sg = perturbedSign(vi, vj, c1, c2)
				}
				if k == 0 {
					sign = sg
				} else {
					hit = sg == sign
				}
			}
			if !hit {
				continue
			}
			// Distance along c0 in grid units:
			//  (v0[c0]*n[c0] + n[c1]*(v0[c1]-X) + n[c2]*(v0[c2]-Y)) / (n[c0]*p)
			var num, t big.Int
			num.Mul(big.NewInt(v[0][c0]), big.NewInt(n[c0]))
			t.Mul(big.NewInt(n[c1]), big.NewInt(v[0][c1]-X))
			num.Add(&num, &t)
			t.Mul(big.NewInt(n[c2]), big.NewInt(v[0][c2]-Y))
			num.Add(&num, &t)
			den := new(big.Int).Mul(big.NewInt(n[c0]), big.NewInt(p))
			fn := float64(n[c0])
			s.sets[c0].Add(line, Intercept{
				Dist:     new(big.Rat).SetFrac(&num, den),
				Norm:     norm,
				SortNorm: d3.Get(norm, c0),
				Quality:  (float64(e[0])*q[0] + float64(e[1])*q[1] + float64(e[2])*q[2]) / fn,
			})
		}
	}
}

// edgeFunc is twice the signed area of the triangle (vi, vj, (X, Y))
// projected on the (c1, c2) plane.
func edgeFunc(vi, vj scaledVec, c1, c2 int, X, Y int64) int64 {
	return (vi[c1]-X)*(vj[c2]-vi[c2]) - (vi[c2]-Y)*(vj[c1]-vi[c1])
}

// perturbedSign resolves a zero edge function by moving the sample point to
// (x+ε, y+ε², z+ε³), so the lower axis index dominates.
func perturbedSign(vi, vj scaledVec, c1, c2 int) int {
	d1, d2 := vj[c1]-vi[c1], vj[c2]-vi[c2]
	// dE/dX = -d2, dE/dY = d1.
	if c1 < c2 {
		if d2 != 0 {
			return sign64(-d2)
		}
		return sign64(d1)
	}
	if d1 != 0 {
		return sign64(d1)
	}
	return sign64(-d2)
}

func sign64(a int64) int {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	}
	return 0
}

func sub64(a, b scaledVec) scaledVec {
	return scaledVec{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross64(a, b scaledVec) scaledVec {
	return scaledVec{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 { return -floorDiv(-a, b) }

// Volume freezes the rasterized crossings into a Volume.
func (s *Set3) Volume() *Volume {
	v := &Volume{Delta: s.Delta, BBox: s.BBox}
	for axis := range v.beams {
		v.beams[axis] = s.sets[axis].Beam()
	}
	csg.Logger().Debug("rasterized volume", "bbox", s.BBox, "delta", s.Delta, "intercepts", v.Intercepts())
	return v
}
